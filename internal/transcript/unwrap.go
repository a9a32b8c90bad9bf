package transcript

// maxUnwrapDepth bounds envelope descent so cyclic or absurdly nested
// payloads terminate.
const maxUnwrapDepth = 6

// unwrap strips transport envelopes (n8n-style json/data wrappers, body,
// items, result/results) until a value of interest remains. Wrapper keys
// are tried in a fixed priority order and descent stops at the first
// sequence, the first non-envelope mapping, any scalar, or the depth bound.
func unwrap(raw any) any {
	v := flattenWrapped(raw)
	for guard := 0; v != nil && guard < maxUnwrapDepth; guard++ {
		if seq, ok := seqValue(v); ok {
			return flattenWrapped(seq)
		}
		m, ok := mapValue(v)
		if !ok {
			return v
		}
		if inner, ok := m["json"]; ok {
			v = inner
			continue
		}
		if inner, ok := m["data"]; ok {
			v = inner
			continue
		}
		if inner, ok := m["body"]; ok {
			v = inner
			continue
		}
		if inner, ok := m["items"]; ok {
			if _, isSeq := seqValue(inner); isSeq {
				v = inner
				continue
			}
		}
		if inner, ok := m["result"]; ok && inner != nil {
			v = inner
			continue
		}
		if inner, ok := m["results"]; ok && inner != nil {
			if _, isSeq := seqValue(inner); !isSeq {
				v = inner
				continue
			}
		}
		return v
	}
	return v
}

// flattenWrapped replaces a sequence whose every element is a json/data
// wrapper with the sequence of inner values (json preferred, data as the
// fallback when json is absent or null). Anything else passes through.
func flattenWrapped(v any) any {
	seq, ok := seqValue(v)
	if !ok || len(seq) == 0 {
		return v
	}
	for _, el := range seq {
		m, ok := mapValue(el)
		if !ok {
			return v
		}
		_, hasJSON := m["json"]
		_, hasData := m["data"]
		if !hasJSON && !hasData {
			return v
		}
	}
	out := make([]any, len(seq))
	for i, el := range seq {
		m, _ := mapValue(el)
		if inner, ok := m["json"]; ok && inner != nil {
			out[i] = inner
			continue
		}
		out[i] = m["data"]
	}
	return out
}
