package utils

import (
	"crypto/rand"
	"math/big"
)

// codeAlphabet deliberately excludes nothing: codes are compared
// case-insensitively and normalized to uppercase at rest, so the full
// uppercase alphanumeric set keeps the namespace at 36^n.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed length of a channel join code.
const CodeLength = 6

// GenerateCode returns a random uppercase alphanumeric join code of the
// given length.
func GenerateCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
