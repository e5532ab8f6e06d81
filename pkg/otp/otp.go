package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// GenerateNumeric returns a numeric one-time code of the given length,
// used for email verification.
func GenerateNumeric(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// GenerateResetToken returns an opaque hex password-reset token derived
// from 30 random bytes.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 30)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(hex.EncodeToString(buf)))
	return hex.EncodeToString(sum[:]), nil
}
