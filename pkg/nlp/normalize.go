package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var spaces = regexp.MustCompile(`\s+`)

// Normalize lowercases text, strips diacritics and collapses whitespace.
// Punctuation is kept because date and budget patterns depend on it.
func Normalize(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		result = text
	}

	result = strings.NewReplacer("’", "'", "‘", "'", "“", `"`, "”", `"`).Replace(result)

	return strings.TrimSpace(spaces.ReplaceAllString(result, " "))
}

var numberWords = map[string]string{
	"one": "1", "two": "2", "three": "3", "four": "4", "five": "5",
	"six": "6", "seven": "7", "eight": "8", "nine": "9", "ten": "10",
}

var numberWordPattern = regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten)\b`)

func replaceNumberWords(text string) string {
	return numberWordPattern.ReplaceAllStringFunc(text, func(w string) string {
		return numberWords[w]
	})
}
