package security

import (
	"crypto/rand"
	"errors"
	"math"
)

var errInvalidAlphabet = errors.New("alphabet must hold between 1 and 256 characters")

// RandomString draws length characters from alphabet using crypto/rand.
// Bytes at or above the largest multiple of len(alphabet) are discarded so
// every character is equally likely.
func RandomString(length int, alphabet string) (string, error) {
	if length <= 0 {
		return "", nil
	}
	size := len(alphabet)
	if size == 0 || size > math.MaxUint8+1 {
		return "", errInvalidAlphabet
	}

	cutoff := 256 - 256%size
	result := make([]byte, 0, length)
	chunk := make([]byte, length)
	for len(result) < length {
		if _, err := rand.Read(chunk); err != nil {
			return "", err
		}
		for _, value := range chunk {
			if int(value) >= cutoff {
				continue
			}
			result = append(result, alphabet[int(value)%size])
			if len(result) == length {
				break
			}
		}
	}
	return string(result), nil
}
