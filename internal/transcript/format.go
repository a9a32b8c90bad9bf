package transcript

import (
	"fmt"
	"math"
)

// FormatClock renders a second count as "mm:ss". Minutes are unbounded,
// both fields are zero-padded, negatives and NaN floor to zero.
func FormatClock(seconds float64) string {
	s := 0
	if !math.IsNaN(seconds) && !math.IsInf(seconds, 0) && seconds > 0 {
		s = int(math.Floor(seconds))
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
