// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug converts identifiers and display names into URL and SQL friendly forms.
//
// # Usage
//
// Entity type names are written in PascalCase ("EditionGroup"). URLs use the
// kebab form ("edition-group"), table names the snake form ("edition_group")
// and JSON payload keys the lower camel form ("editionGroup").
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kebab converts s into lowercase words joined by hyphens.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Splits on non-alphanumeric runs and on lower→upper case boundaries.
// 3. Lowercases and joins the words with '-'.
func Kebab(s string) string {
	return strings.Join(lowerWords(s), "-")
}

// Snake converts s into lowercase words joined by underscores.
func Snake(s string) string {
	return strings.Join(lowerWords(s), "_")
}

// LowerCamel converts s into camelCase with a lowercase first word.
func LowerCamel(s string) string {
	parts := lowerWords(s)
	for i := 1; i < len(parts); i++ {
		runes := []rune(parts[i])
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, "")
}

// lowerWords deburrs s and splits it into lowercase words.
func lowerWords(s string) []string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	clean, _, _ := transform.String(t, s)

	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(clean)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		// Word boundary on "aB", and on "ABc" before the last capital.
		if unicode.IsUpper(r) && len(current) > 0 {
			previous := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(previous) || unicode.IsDigit(previous) || (unicode.IsUpper(previous) && nextIsLower) {
				flush()
			}
		}

		current = append(current, r)
	}
	flush()

	return words
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
