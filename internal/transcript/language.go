package transcript

// LanguageUnknown is the sentinel for an undetected language; it doubles
// as the sentinel duration string.
const (
	LanguageUnknown = "unknown"
	DurationUnknown = "unknown"
)

// GuessLanguage sniffs the dominant Unicode script of the transcript text.
// This is a presence heuristic, not a language detector: any CJK unified
// ideograph wins over kana, kana over hangul, and Latin-only text stays
// unknown.
func GuessLanguage(text string) string {
	var han, kana, hangul bool
	for _, r := range text {
		switch {
		case r >= 0x4E00 && r <= 0x9FFF:
			han = true
		case r >= 0x3040 && r <= 0x30FF:
			kana = true
		case r >= 0xAC00 && r <= 0xD7AF:
			hangul = true
		}
	}
	switch {
	case han:
		return "zh"
	case kana:
		return "ja"
	case hangul:
		return "ko"
	default:
		return LanguageUnknown
	}
}
