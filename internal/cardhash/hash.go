// Package cardhash derives a stable content identity for imported cards.
// The importer uses it to recognize cards across re-imports: unchanged
// cards keep their scheduling state, edited or removed cards are treated
// as new or orphaned.
package cardhash

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize concatenates the card's content after cleaning each side.
// It trims whitespace, lowercases, and normalizes line endings before
// joining, so cosmetic edits in the source file do not change identity.
func Normalize(front, back string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	// Joined with a newline so the boundary between the sides stays
	// unambiguous.
	return strings.Join([]string{normalizePart(front), normalizePart(back)}, "\n")
}

// Hash returns the SHA-256 of the normalized card content as a hex string.
func Hash(front, back string) string {
	normalized := Normalize(front, back)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(normalized)))
}
