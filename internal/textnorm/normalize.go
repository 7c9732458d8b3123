// Package textnorm normalizes free text for case-insensitive comparison.
//
// Input from terminals and spreadsheets can arrive in composed or decomposed
// Unicode form; Vietnamese diacritics make the difference visible, so every
// comparison goes through NFC first.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in NFC, lower-cased and trimmed.
// A cases.Caser is stateful, so each call builds its own.
func Fold(s string) string {
	return strings.TrimSpace(cases.Lower(language.Vietnamese).String(norm.NFC.String(s)))
}

// Upper returns s in NFC, upper-cased and trimmed.
func Upper(s string) string {
	return strings.TrimSpace(cases.Upper(language.Vietnamese).String(norm.NFC.String(s)))
}

// Contains reports whether needle occurs in haystack ignoring case and
// Unicode normalization form. An empty needle never matches.
func Contains(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Fold(haystack), n)
}

// ContainsAny reports whether any of needles occurs in haystack.
func ContainsAny(haystack string, needles []string) bool {
	h := Fold(haystack)
	for _, needle := range needles {
		if n := Fold(needle); n != "" && strings.Contains(h, n) {
			return true
		}
	}
	return false
}
