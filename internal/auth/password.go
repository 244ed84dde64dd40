package auth

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidEmail reports whether the address looks like an email.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword enforces the registration password policy: at least
// 8 characters with an uppercase letter, a lowercase letter, a digit
// and a special character.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 8:
		return errors.New("password must be at least 8 characters")
	case !strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz"):
		return errors.New("password must include a lowercase letter")
	case !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"):
		return errors.New("password must include an uppercase letter")
	case !strings.ContainsAny(password, "0123456789"):
		return errors.New("password must include a number")
	case !strings.ContainsAny(password, "@$!%?&*#_-"):
		return errors.New("password must include a special character")
	}
	return nil
}
