package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

// letters that carry no combining mark and so survive NFD folding
var foldExtra = strings.NewReplacer(
	"đ", "d", "Đ", "D",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"ß", "ss", "æ", "ae", "Æ", "AE",
)

// GenerateSlug turns a display name into a URL slug:
// "Páramo Andino" → "paramo-andino"
func GenerateSlug(input string) string {
	// Step 1: Strip diacritics
	ascii := RemoveDiacritics(input)

	// Step 2: Lowercase, spaces and underscores to hyphens
	lower := strings.ToLower(ascii)
	hyphenated := strings.NewReplacer(" ", "-", "_", "-").Replace(lower)

	// Step 3: Keep only a-z, 0-9 and hyphens
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")

	// Step 4: Collapse and trim hyphens
	normalized := slugDashes.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// RemoveDiacritics folds accented letters to their base letter
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, input)
	if err != nil {
		folded = input
	}
	return foldExtra.Replace(folded)
}

// UniqueSlug returns base, or base-2, base-3, ... for the first candidate
// taken reports as free
func UniqueSlug(ctx context.Context, base string, taken func(context.Context, string) (bool, error)) (string, error) {
	if base == "" {
		base = "item"
	}
	candidate := base
	for n := 2; ; n++ {
		inUse, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
