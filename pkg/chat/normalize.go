// CLAUDE:SUMMARY Message normalization (NFD accent strip, lowercase, trim) applied once before intent matching.
package chat

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize prepares a raw chat message for matching: accents are stripped,
// the text is lowercased and surrounding whitespace removed. Intent
// classification and parameter extraction both run on the normalized form;
// only the stored task description keeps the raw message.
func Normalize(s string) string {
	result, _, _ := transform.String(stripAccents, strings.ToLower(s))
	return strings.TrimSpace(result)
}
