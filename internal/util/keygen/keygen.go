package keygen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SecretLength is the length of generated dashboard passwords and OAuth client names.
const SecretLength = 10

// Alphanumeric returns a random string of n lowercase letters and digits.
func Alphanumeric(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid secret length %d", n)
	}

	limit := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}

// Secret returns a random string of SecretLength characters.
func Secret() (string, error) {
	return Alphanumeric(SecretLength)
}
