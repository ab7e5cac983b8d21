package security

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultHashCost = bcrypt.DefaultCost

	temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	temporaryPasswordDigits   = "23456789"
	minTemporaryPassword      = 8
)

var errPasswordEmpty = errors.New("password must not be empty")

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errPasswordEmpty
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func PasswordMatches(hash string, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TemporaryPassword generates a password without look-alike characters that
// always contains at least one letter and one digit.
func TemporaryPassword(length int) (string, error) {
	if length < minTemporaryPassword {
		length = minTemporaryPassword
	}
	for {
		value, err := RandomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if strings.ContainsAny(value, temporaryPasswordDigits) && strings.IndexFunc(value, isASCIILetter) >= 0 {
			return value, nil
		}
	}
}

func isASCIILetter(char rune) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}
