package qhash

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/pruvi/pruvi/internal/domain"
)

// Normalize concatenates a seed's identifying content after cleaning
// each part. Body and options are trimmed, lowercased, and have their
// line endings normalized so cosmetic edits in a question pack do not
// change the question's identity.
func Normalize(seed domain.QuestionSeed) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	parts := make([]string, 0, len(seed.Options)+1)
	parts = append(parts, normalizePart(seed.Body))
	for _, opt := range seed.Options {
		parts = append(parts, normalizePart(opt))
	}

	// Joined with newlines so adjacent fields cannot run together and
	// collide, e.g. "option a" + "b" vs "option" + "ab".
	return strings.Join(parts, "\n")
}

// Hash returns the hex SHA-256 of the normalized seed. Two seeds with
// the same body and options hash identically regardless of difficulty
// or source citation, which may be corrected in place.
func Hash(seed domain.QuestionSeed) string {
	normalized := Normalize(seed)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}
