// Package shortlink derives the short token stored on every recipe.
package shortlink

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Generate returns the first length hex characters of sha256("<id>-<name>-<text>").
// The id is part of the input so two recipes with the same content still get
// different tokens. length is clamped to [1, 64].
func Generate(id uuid.UUID, name, text string, length int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%s", id, name, text)))
	digest := hex.EncodeToString(sum[:])
	if length <= 0 {
		length = 1
	}
	if length > len(digest) {
		length = len(digest)
	}
	return digest[:length]
}

// Path is the relative resolve path for a token.
func Path(hash string) string {
	return "/s/" + hash + "/"
}
