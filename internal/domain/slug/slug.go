// Package slug derives URL-safe, unique identifiers from free-text content.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// SourceLength is the number of leading content characters considered for the base slug.
	SourceLength = 50
	// SuffixLength is the number of random characters appended on collision.
	SuffixLength = 4
	// Separator joins words and the collision suffix.
	Separator = "-"
	// MaxLength is the widest slug the posts table stores.
	MaxLength = 255
	// MaxBaseLength leaves room for a collision suffix within MaxLength.
	MaxBaseLength = MaxLength - len(Separator) - SuffixLength

	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Normalize lowercases the input, folds diacritics to their ASCII base letters
// and collapses every run of characters outside [a-z0-9] into a single separator.
// Apostrophes are dropped so contractions stay one word.
func Normalize(value string) string {
	lowered := strings.ToLower(value)
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), lowered)
	if err != nil {
		folded = lowered
	}

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingSeparator := false
	for _, r := range folded {
		if isApostrophe(r) {
			continue
		}
		if isSlugRune(r) {
			if pendingSeparator && builder.Len() > 0 {
				builder.WriteString(Separator)
			}
			pendingSeparator = false
			builder.WriteRune(r)
			continue
		}
		pendingSeparator = true
	}

	return builder.String()
}

// Base returns the normalised slug for the first SourceLength characters of content.
// Compatibility decomposition can expand characters, so the result is capped at
// MaxBaseLength, cutting back to a word boundary where one exists.
func Base(content string) string {
	return capLength(Normalize(truncate(content, SourceLength)), MaxBaseLength)
}

func capLength(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := value[:limit]
	if idx := strings.LastIndex(cut, Separator); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSuffix(cut, Separator)
}

// Valid reports whether value is a non-empty slug made of [a-z0-9] words joined by single separators.
func Valid(value string) bool {
	if value == "" {
		return false
	}
	for _, word := range strings.Split(value, Separator) {
		if word == "" {
			return false
		}
		for _, r := range word {
			if !isSlugRune(r) {
				return false
			}
		}
	}
	return true
}

func truncate(value string, limit int) string {
	count := 0
	for idx := range value {
		if count == limit {
			return value[:idx]
		}
		count++
	}
	return value
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '\u2019'
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
