package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

func GenerateOTP() string {
	// Generate a 4-digit OTP
	var number [2]byte
	rand.Read(number[:])
	return fmt.Sprintf("%04d", (int(number[0])<<8|int(number[1]))%10000)
}

// GenerateToken returns a random token to email to the user. Only its
// sha256 digest (HashToken) is persisted.
func GenerateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// HashToken produces the storable digest of a verification or reset token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
