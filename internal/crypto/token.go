package crypto

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken derives the storage key for a bearer token. Raw tokens are never
// persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
