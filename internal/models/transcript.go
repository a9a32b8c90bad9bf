package models

// TranscriptionSegment is one time-aligned utterance. Start and end are
// nil when the source payload carried no usable value.
type TranscriptionSegment struct {
	Text      string   `json:"text"`
	Start     *float64 `json:"start,omitempty"`
	End       *float64 `json:"end,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Speaker   string   `json:"speaker,omitempty"`
}

// TranscriptionRecord is the canonical transcript produced by the
// normalizer: one record per distinct transcript, never mutated after
// construction.
type TranscriptionRecord struct {
	ID       string                 `json:"id"`
	Language string                 `json:"language"`
	Duration string                 `json:"duration"`
	Text     string                 `json:"text"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}
