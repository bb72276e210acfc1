package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

// HashOrRead returns password unchanged when it is already a bcrypt hash,
// otherwise it hashes it. Lets operators pass either form through env.
func HashOrRead(password string) ([]byte, error) {
	if strings.HasPrefix(password, "$2a$") || strings.HasPrefix(password, "$2b$") || strings.HasPrefix(password, "$2y$") {
		return []byte(password), nil
	}
	return bcrypt.GenerateFromPassword([]byte(password), passwordCost)
}

// PasswordMatches reports whether password hashes to hash.
func PasswordMatches(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
