package artifacts

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

// IDLength is the length of an artifact identifier in characters.
const IDLength = 32

var nameRE = regexp.MustCompile(`^[0-9a-f]{32}\.[a-z0-9]{1,10}$`)

// NewID returns a new artifact identifier: the lowercase hex form of a random
// (version 4) UUID. Safe for concurrent use.
func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// ValidName reports whether name has the servable form <id><ext>.
func ValidName(name string) bool {
	return nameRE.MatchString(name)
}
