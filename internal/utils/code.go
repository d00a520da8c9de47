package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// GenerateVerificationCode returns a random 6-digit numeric code.
func GenerateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to return.
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// GenerateResetToken returns an opaque URL-safe token for password resets.
func GenerateResetToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
