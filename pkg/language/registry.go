// Package language holds the fixed set of languages the bot can translate
// between and the script detector used by the auto-detect mode.
package language

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguageCode is returned when a code is not one of the supported languages.
var ErrUnknownLanguageCode = errors.New("unknown language code")

// Language is a supported language code and its display name.
type Language struct {
	Code string
	Name string
}

// supported is the closed set of languages, in listing order.
var supported = []Language{
	{Code: "ja", Name: "Japanese"},
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ko", Name: "Korean"},
	{Code: "it", Name: "Italian"},
	{Code: "ru", Name: "Russian"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
	{Code: "pt", Name: "Portuguese"},
}

var byCode = func() map[string]string {
	m := make(map[string]string, len(supported))
	for _, l := range supported {
		m[l.Code] = l.Name
	}
	return m
}()

// NameOf returns the display name for a language code.
func NameOf(code string) (string, error) {
	name, ok := byCode[code]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguageCode, code)
	}
	return name, nil
}

// IsSupported reports whether code is one of the supported language codes.
func IsSupported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// All returns the supported languages in listing order.
func All() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Codes returns the supported language codes in listing order.
func Codes() []string {
	codes := make([]string, 0, len(supported))
	for _, l := range supported {
		codes = append(codes, l.Code)
	}
	return codes
}

// Normalize converts user input to the canonical code form.
// Examples:
//   - "JA" -> "ja"
//   - " en " -> "en"
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ParsePair splits a "from-to" pair such as "ja-en" at the first "-".
// ok is false when the separator is missing; the codes are not validated.
func ParsePair(s string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(s, "-")
	if !ok {
		return "", "", false
	}
	return Normalize(from), Normalize(to), true
}
