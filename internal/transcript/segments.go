package transcript

import (
	"sort"

	"github.com/wkyin9211-crypto/mediarelay/internal/models"
)

// pickSegments locates a segment sequence inside the unwrapped value.
// First match wins:
//  1. the value itself, when every element is segment-shaped
//  2. inside a sequence, the first element (unwrapped via json/data)
//     exposing a "segments" sequence
//  3. on a mapping: "segments", then "results", then the first field
//     (keys scanned in sorted order for determinism) holding a non-empty
//     sequence whose first element looks segment-like
func pickSegments(v any) ([]any, bool) {
	if seq, ok := seqValue(v); ok {
		if looksLikeSegments(seq) {
			return seq, true
		}
		for _, el := range seq {
			inner := el
			if m, ok := mapValue(el); ok {
				if j, ok := m["json"]; ok && j != nil {
					inner = j
				} else if d, ok := m["data"]; ok && d != nil {
					inner = d
				}
			}
			if im, ok := mapValue(inner); ok {
				if segs, ok := seqValue(im["segments"]); ok {
					return segs, true
				}
			}
		}
		return nil, false
	}

	m, ok := mapValue(v)
	if !ok {
		return nil, false
	}
	if segs, ok := seqValue(m["segments"]); ok {
		return segs, true
	}
	if segs, ok := seqValue(m["results"]); ok {
		return segs, true
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		seq, ok := seqValue(m[k])
		if !ok || len(seq) == 0 {
			continue
		}
		first, ok := mapValue(seq[0])
		if !ok {
			continue
		}
		_, hasText := first["text"]
		_, hasStart := first["start"]
		_, hasWord := first["word"]
		if hasText || hasStart || hasWord {
			return seq, true
		}
	}
	return nil, false
}

// looksLikeSegments reports whether every element is a mapping carrying
// either text plus a start/end bound, or a word field.
func looksLikeSegments(seq []any) bool {
	if len(seq) == 0 {
		return false
	}
	for _, el := range seq {
		m, ok := mapValue(el)
		if !ok {
			return false
		}
		_, hasText := m["text"]
		_, hasStart := m["start"]
		_, hasEnd := m["end"]
		_, hasWord := m["word"]
		if !(hasText && (hasStart || hasEnd)) && !hasWord {
			return false
		}
	}
	return true
}

// makeSegment maps one raw element to a canonical segment, resolving the
// field aliases seen across STT backends.
func makeSegment(el any) models.TranscriptionSegment {
	m, ok := mapValue(el)
	if !ok {
		return models.TranscriptionSegment{}
	}
	var seg models.TranscriptionSegment
	seg.Text, _ = pickScalar(m, "text", "word")
	start, hasStart := pickNumber(m, "start", "begin", "ts", "startTime")
	end, hasEnd := pickNumber(m, "end", "finish", "endTime")
	if hasStart {
		seg.Start = &start
	}
	if hasEnd {
		seg.End = &end
	}
	if hasStart || hasEnd {
		stamp := FormatClock(start)
		if hasEnd {
			stamp += "-" + FormatClock(end)
		}
		seg.Timestamp = stamp
	}
	seg.Speaker, _ = pickScalar(m, "speaker", "spk", "speakerId")
	return seg
}

// maxSegmentEnd returns the largest end-alias value across the raw
// elements, skipping anything non-numeric.
func maxSegmentEnd(seq []any) float64 {
	var max float64
	for _, el := range seq {
		m, ok := mapValue(el)
		if !ok {
			continue
		}
		if end, ok := pickNumber(m, "end", "finish", "endTime"); ok && end > max {
			max = end
		}
	}
	return max
}
