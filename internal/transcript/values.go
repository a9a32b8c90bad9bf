package transcript

import (
	"encoding/json"
	"strconv"
)

func mapValue(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func seqValue(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// toNumber accepts the numeric types a decoded JSON tree may carry.
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// pickNumber returns the value of the first alias that is present and
// non-null. Negative and non-numeric values are floored to zero; presence
// is reported either way so callers can distinguish 0 from absent.
func pickNumber(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		n, numeric := toNumber(v)
		if !numeric || n < 0 {
			n = 0
		}
		return n, true
	}
	return 0, false
}

// pickScalar stringifies the first alias that is present and non-null.
func pickScalar(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		return asString(v), true
	}
	return "", false
}

// pickString returns the first alias holding a non-empty string.
func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
