package accounts

import (
	"errors"

	"github.com/rotisserie/eris"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost used for stored passwords.
const DefaultPasswordCost = 12

var errEmptyPassword = eris.New("password cannot be empty")

func hashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", eris.Wrap(err, "hashing password")
	}

	return string(hash), nil
}

// verifyPassword returns ErrInvalidCredentials on mismatch.
func verifyPassword(hash, password string) error {
	if password == "" {
		return ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}

	return eris.Wrap(err, "verifying password")
}
