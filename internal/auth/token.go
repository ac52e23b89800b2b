package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenLength is the fixed length of issued session tokens in characters.
const TokenLength = 64

// NewToken mints an opaque, unguessable session token: 32 bytes from
// crypto/rand, hex encoded to a fixed 64 characters. The token carries no
// claims; validity lives entirely in the session registry.
func NewToken() (string, error) {
	buf := make([]byte, TokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
