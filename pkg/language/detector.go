package language

// Script is the binary result of script detection.
type Script int

const (
	// ScriptOther is any text without Japanese script characters.
	ScriptOther Script = iota
	// ScriptJapanese is text containing at least one kana or kanji character.
	ScriptJapanese
)

func (s Script) String() string {
	if s == ScriptJapanese {
		return "japanese"
	}
	return "other"
}

// Detect classifies text by the presence of a single Hiragana, Katakana or
// CJK Unified Ideograph rune anywhere in it. Empty text is ScriptOther.
func Detect(text string) Script {
	for _, r := range text {
		if isJapanese(r) {
			return ScriptJapanese
		}
	}
	return ScriptOther
}

func isJapanese(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // Hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // Katakana
		return true
	case r >= 0x4E00 && r <= 0x9FAF: // CJK Unified Ideographs
		return true
	}
	return false
}
