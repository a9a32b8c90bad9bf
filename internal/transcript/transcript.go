// Package transcript reduces the JSON returned by transcription webhooks
// to canonical records. Backends disagree wildly about payload shape, so
// the decoder is deliberately lenient: it unwraps transport envelopes,
// then tries a fixed priority of known shapes (batch, segment sequence,
// plain text) and degrades to a best-effort record instead of failing.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wkyin9211-crypto/mediarelay/internal/models"
)

// Normalize converts an arbitrary decoded-JSON value into transcription
// records. It is a total function: any input, including nil, empty
// containers, and payloads nested past the unwrap bound, yields a result
// without panicking. The result is empty only when the payload itself
// declares an empty batch; callers render that as an explicit no-data
// state rather than an error.
func Normalize(raw any) []models.TranscriptionRecord {
	v := unwrap(raw)
	if recs, ok := decodeBatch(v); ok {
		return recs
	}
	if rec, ok := decodeSegmented(v); ok {
		return []models.TranscriptionRecord{rec}
	}
	return []models.TranscriptionRecord{decodePlainText(v)}
}

// decodeBatch handles payloads that already carry a transcriptions list.
// Elements are passed through 1:1; they are trusted to carry their own
// id/language/duration/text and optionally segments.
func decodeBatch(v any) ([]models.TranscriptionRecord, bool) {
	m, ok := mapValue(v)
	if !ok {
		return nil, false
	}
	seq, ok := seqValue(m["transcriptions"])
	if !ok {
		return nil, false
	}
	recs := make([]models.TranscriptionRecord, 0, len(seq))
	for _, el := range seq {
		recs = append(recs, batchRecord(el))
	}
	return recs, true
}

func batchRecord(el any) models.TranscriptionRecord {
	rec := models.TranscriptionRecord{
		ID:       newRecordID(),
		Language: LanguageUnknown,
		Duration: DurationUnknown,
	}
	m, ok := mapValue(el)
	if !ok {
		return rec
	}
	if id, ok := m["id"].(string); ok && id != "" {
		rec.ID = id
	}
	if lang := pickString(m, "language"); lang != "" {
		rec.Language = lang
	}
	if d, ok := m["duration"]; ok {
		if n, numeric := toNumber(d); numeric {
			rec.Duration = FormatClock(n)
		} else if s, isStr := d.(string); isStr && s != "" {
			rec.Duration = s
		}
	}
	rec.Text = asString(m["text"])
	if segs, ok := seqValue(m["segments"]); ok {
		rec.Segments = make([]models.TranscriptionSegment, 0, len(segs))
		for _, s := range segs {
			rec.Segments = append(rec.Segments, makeSegment(s))
		}
	}
	return rec
}

// decodeSegmented handles values exposing a time-aligned segment list.
func decodeSegmented(v any) (models.TranscriptionRecord, bool) {
	raw, ok := pickSegments(v)
	if !ok {
		return models.TranscriptionRecord{}, false
	}
	segs := make([]models.TranscriptionSegment, 0, len(raw))
	texts := make([]string, 0, len(raw))
	for _, el := range raw {
		seg := makeSegment(el)
		segs = append(segs, seg)
		texts = append(texts, seg.Text)
	}
	full := strings.Join(texts, " ")
	return models.TranscriptionRecord{
		ID:       newRecordID(),
		Language: detectLanguage(v, full),
		Duration: segmentedDuration(v, maxSegmentEnd(raw)),
		Text:     full,
		Segments: segs,
	}, true
}

// decodePlainText is the terminal fallback: a single record from whatever
// text/duration fields the value carries, possibly all absent.
func decodePlainText(v any) models.TranscriptionRecord {
	var text string
	m, isMap := mapValue(v)
	if isMap {
		text = asString(m["text"])
	}
	return models.TranscriptionRecord{
		ID:       newRecordID(),
		Language: detectLanguage(v, text),
		Duration: plainDuration(m),
		Text:     text,
	}
}

// segmentedDuration prefers an explicit duration field (numeric values
// formatted, strings verbatim), then the largest segment end.
func segmentedDuration(v any, endMax float64) string {
	if m, ok := mapValue(v); ok {
		if d, ok := m["duration"]; ok {
			if n, numeric := toNumber(d); numeric {
				return FormatClock(n)
			}
			if s, isStr := d.(string); isStr {
				return s
			}
		}
	}
	if endMax > 0 {
		return FormatClock(endMax)
	}
	return DurationUnknown
}

func plainDuration(m map[string]any) string {
	if m == nil {
		return DurationUnknown
	}
	if d, ok := m["duration"]; ok {
		if n, numeric := toNumber(d); numeric {
			return FormatClock(n)
		}
		if s, isStr := d.(string); isStr {
			return s
		}
	}
	if end, ok := toNumber(m["end"]); ok && end > 0 {
		return FormatClock(end)
	}
	return DurationUnknown
}

// detectLanguage honors an explicit language field unless it is missing
// or the unknown sentinel, then falls back to script sniffing.
func detectLanguage(v any, text string) string {
	if m, ok := mapValue(v); ok {
		if lang := pickString(m, "language", "lang", "detected_language"); lang != "" && lang != LanguageUnknown {
			return lang
		}
	}
	return GuessLanguage(text)
}

// newRecordID only needs to be unique within one normalization pass.
func newRecordID() string {
	return fmt.Sprintf("tr-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
