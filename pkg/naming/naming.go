// Package naming normalises object names into archive entry names.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// entryName composes to NFC and maps separators and control characters to
// underscores.
var entryName = transform.Chain(norm.NFC, runes.Map(scrub))

func scrub(r rune) rune {
	if r == '/' || r == '\\' || r == ':' || unicode.IsControl(r) {
		return '_'
	}
	return r
}

// EntryName converts a host object or material name into the stem of an
// archive entry. The result contains no path separators, so "{stem}.vert.bin"
// is always a top-level entry.
func EntryName(s string) string {
	result, _, err := transform.String(entryName, s)
	if err != nil {
		result = strings.Map(scrub, strings.ToValidUTF8(s, "_"))
	}
	switch result {
	case "", ".", "..":
		return strings.Repeat("_", len(result)+1)
	}
	return result
}

// Canonical returns an entry path in NFC with forward slashes. Two entries
// with the same canonical path cannot coexist in an archive.
func Canonical(path string) string {
	return strings.ReplaceAll(norm.NFC.String(path), "\\", "/")
}

// Key returns the case-insensitive lookup key for an entry path.
func Key(path string) string {
	return strings.ToLower(Canonical(path))
}
