package ocr

import "strings"

// LanguageProfile selects which recognizer model handles a request.
type LanguageProfile int

const (
	// Latin covers English-only text.
	Latin LanguageProfile = iota
	// Devanagari covers Hindi-only text.
	Devanagari
	// Bilingual covers mixed Hindi+English selections.
	Bilingual
)

func (p LanguageProfile) String() string {
	switch p {
	case Devanagari:
		return "devanagari"
	case Bilingual:
		return "bilingual"
	default:
		return "latin"
	}
}

// ModelKey maps a profile to the recognizer's model identifier. The Hindi
// model recognizes both scripts, so it also backs the bilingual profile.
func (p LanguageProfile) ModelKey() string {
	switch p {
	case Devanagari, Bilingual:
		return "hi"
	default:
		return "en"
	}
}

// ParseProfile accepts the language spellings users and configs actually
// write. Unknown values resolve to Bilingual, the safest default.
func ParseProfile(s string) LanguageProfile {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eng", "en", "english", "latin":
		return Latin
	case "hin", "hindi", "hi", "devanagari":
		return Devanagari
	case "eng+hin", "hin+eng", "bilingual", "multilingual":
		return Bilingual
	default:
		return Bilingual
	}
}

// FallbackOrder is the retry list used when the primary profile returns
// empty text. The primary itself is skipped when it appears here.
var FallbackOrder = []LanguageProfile{Devanagari, Bilingual, Latin}
