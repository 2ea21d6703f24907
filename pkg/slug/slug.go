// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives ASCII URL slugs from project names.
//
// A project named "Café Backend (v2)" is reachable as /projects/cafe-backend-v2.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds generated slugs. Longer input is cut at a hyphen when possible.
const MaxLength = 100

var (
	separators = regexp.MustCompile(`[^a-z0-9]+`)
	wellFormed = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// Accents are stripped (NFD, then combining marks removed), the result is
// lowercased, and every run of other characters becomes one hyphen. Input
// with no ASCII letters or digits yields "".
func From(s string) string {
	stripAccents := transform.Chain(norm.NFD, transform.RemoveFunc(isMark))
	result, _, err := transform.String(stripAccents, s)
	if err != nil {
		result = s
	}

	result = separators.ReplaceAllString(strings.ToLower(result), "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = result[:MaxLength]
		if cut := strings.LastIndexByte(result, '-'); cut > MaxLength/2 {
			result = result[:cut]
		}
		result = strings.TrimRight(result, "-")
	}

	return result
}

// Valid reports whether s is already in slug form.
//
// Lookups use it to tell a slug from a UUID cheaply; a UUID is also a valid
// slug, so callers check for UUIDs first.
func Valid(s string) bool {
	return len(s) <= MaxLength && wellFormed.MatchString(s)
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
