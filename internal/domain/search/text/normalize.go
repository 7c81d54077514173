// Package text folds catalog text into a comparison-safe form. It is the
// single place where locale-specific characters are mapped to plain Latin
// letters; query tokens, tags and product fields all go through it.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTable maps Turkish letters to their base-Latin lowercase form.
// Upper and lower case variants map to the same output.
var foldTable = map[rune]rune{
	'ü': 'u', 'Ü': 'u',
	'ş': 's', 'Ş': 's',
	'ğ': 'g', 'Ğ': 'g',
	'ç': 'c', 'Ç': 'c',
	'ö': 'o', 'Ö': 'o',
	'ı': 'i', 'İ': 'i',
}

// FoldTable returns a copy of the character fold table.
func FoldTable() map[rune]rune {
	out := make(map[rune]rune, len(foldTable))
	for k, v := range foldTable {
		out[k] = v
	}
	return out
}

func foldRune(r rune) rune {
	if f, ok := foldTable[r]; ok {
		return f
	}
	return r
}

// newFolder builds the transform chain. Chains keep internal state,
// so every call gets its own.
func newFolder() transform.Transformer {
	return transform.Chain(
		runes.Map(foldRune),
		runes.Map(unicode.ToLower),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
}

// Normalize lowercases s, folds accented letters to plain Latin, trims it
// and collapses whitespace runs to a single space. Empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(newFolder(), s)
	if err != nil {
		folded = strings.ToLower(strings.Map(foldRune, s))
	}
	return strings.Join(strings.Fields(folded), " ")
}

// Lower is the raw comparison form: lowercased and trimmed, no folding.
func Lower(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Tokenize lowercases s and splits it on whitespace. Every non-empty token
// is kept; tokens are not folded so callers can compare both ways.
func Tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return nil
	}
	return fields
}
