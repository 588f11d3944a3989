// Package ident converts arbitrary strings into identifiers the host accepts.
package ident

import "strings"

// Sanitize trims surrounding whitespace, replaces every character outside
// [A-Za-z0-9_] with an underscore and lower-cases the result.
// The output only contains [a-z0-9_] and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, s)
}
