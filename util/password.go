package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex encoded SHA-256 digest of the password bytes.
func HashPassword(password string) (hashedPassword string) {
	sum := sha256.Sum256([]byte(password))
	hashedPassword = hex.EncodeToString(sum[:])
	return
}
