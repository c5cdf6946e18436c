package models

import (
	"strings"
	"unicode"
)

// Slugify derives the normalized care item key from a label.
//
// Budget items, ledger lines and the care item catalog are only joined by
// this key, never by a foreign key, so the normalization has to be stable:
// lower case, alphanumeric runs joined by single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // strip leading separators

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}

		if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
