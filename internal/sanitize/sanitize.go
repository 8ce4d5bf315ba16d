package sanitize

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the maximum length in runes of a sanitized name.
// 120 runes keeps full paths comfortably below the limits of common
// filesystems even with deep course/module nesting.
const MaxNameLength = 120

// Fallback is the name returned when sanitization leaves nothing usable.
const Fallback = "untitled"

// illegalChars are characters rejected by at least one of the common
// filesystems (NTFS is the strictest of the set).
const illegalChars = `/\:*?"<>|`

// Name returns a filesystem-safe version of raw.
//
// The transformation is deterministic and idempotent: the same input
// always produces the same output, and sanitizing an already sanitized
// name is a no-op. The download deduplicator relies on both properties
// for its collision detection.
//
// Steps applied in order:
//  1. Unicode NFC normalization, so visually identical names from
//     different API responses compare equal.
//  2. Illegal and control characters replaced with "_".
//  3. Whitespace runs collapsed to a single space.
//  4. Leading/trailing spaces and dots trimmed (Windows rejects both).
//  5. Truncation to MaxNameLength runes, preserving the extension.
func Name(raw string) string {
	s := norm.NFC.String(raw)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case strings.ContainsRune(illegalChars, r), unicode.IsControl(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	s = b.String()

	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " .")

	if s == "" {
		return Fallback
	}

	return truncate(s, MaxNameLength)
}

// truncate shortens s to at most limit runes. When s has an extension,
// the extension survives and the base name is shortened instead.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	ext := filepath.Ext(s)
	extRunes := []rune(ext)

	// An overlong "extension" is not a real extension; cut the whole name.
	if len(extRunes) == 0 || len(extRunes) >= limit {
		return strings.Trim(string(runes[:limit]), " .")
	}

	base := string(runes[:len(runes)-len(extRunes)])
	baseRunes := []rune(base)
	keep := limit - len(extRunes)
	if keep > len(baseRunes) {
		keep = len(baseRunes)
	}
	trimmed := strings.TrimRight(string(baseRunes[:keep]), " .")
	if trimmed == "" {
		return Fallback + ext
	}
	return trimmed + ext
}

// SplitExt splits name into base and extension the way truncation and
// collision suffixing see them. A name without a dot has an empty
// extension.
func SplitExt(name string) (base, ext string) {
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}
