// Package shortid generates the random codes that back short links.
// Codes carry no timestamp or user information; uniqueness against the
// store is the caller's responsibility.
package shortid

import (
	"crypto/rand"
	"math/big"
)

// Alphabet is the 62-symbol URL-safe character set used for short codes.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a cryptographically random code of the given length.
func Generate(length int) (string, error) {
	result := make([]byte, length)
	for i := range result {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(Alphabet))))
		if err != nil {
			return "", err
		}
		result[i] = Alphabet[num.Int64()]
	}
	return string(result), nil
}
