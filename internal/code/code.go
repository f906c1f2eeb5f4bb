// Package code generates and validates list share codes.
//
// A code has the fixed shape "LISTA-" followed by exactly seven characters
// from [A-Z0-9]. Codes are not secrets: they are short, typeable tokens,
// and uniqueness is enforced by the database with retry at creation time.
package code

import (
	"math/rand/v2"
	"strings"
)

const (
	// Prefix is the fixed literal every share code starts with.
	Prefix = "LISTA-"

	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLen = 7
)

// Generate returns a new random share code.
func Generate() string {
	var b strings.Builder
	b.Grow(len(Prefix) + suffixLen)
	b.WriteString(Prefix)
	for i := 0; i < suffixLen; i++ {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

// IsValid reports whether s matches the exact code shape. It is strict:
// lowercase letters, wrong lengths, and missing prefixes all fail.
// Callers that accept user input should Normalize first.
func IsValid(s string) bool {
	if len(s) != len(Prefix)+suffixLen {
		return false
	}
	if !strings.HasPrefix(s, Prefix) {
		return false
	}
	for i := len(Prefix); i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Normalize prepares user input for lookup: trims whitespace and uppercases.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
