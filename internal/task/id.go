package task

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	minIDLength = 6
	// ULIDs are 10 timestamp characters followed by 16 random ones.
	ulidTimeChars = 10
)

// GenerateID creates a unique task ID from the random part of a ULID with adaptive length.
// It starts with minIDLength characters and grows to avoid collisions.
func GenerateID(existsFn func(string) bool) string {
	id := strings.ToLower(ulid.Make().String())
	random := id[ulidTimeChars:]

	for length := minIDLength; length <= len(random); length++ {
		candidate := random[:length]
		if !existsFn(candidate) {
			return candidate
		}
	}

	// Fallback: the full ULID is unique on its own
	return id
}
