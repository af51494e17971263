package core

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanString trims all leading and trailing whitespace in `s`, composes it to NFC and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
