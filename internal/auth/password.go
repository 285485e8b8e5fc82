package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// unknownUserPassword seeds the hash compared on logins for unknown emails.
const unknownUserPassword = "phishsim-unknown-user"

// unknownUserHash gives logins for unknown emails the same bcrypt cost as
// real ones.
var unknownUserHash = sync.OnceValue(func() string {
	hash, err := HashPassword(unknownUserPassword)
	if err != nil {
		panic(err)
	}
	return hash
})
