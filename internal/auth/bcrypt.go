package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinBCryptCost is the floor for the adaptive hashing work factor.
const MinBCryptCost = 10

// DefaultBCryptCost is used when no cost is configured.
const DefaultBCryptCost = 12

// HashPassword will generate a password hash with the given cost. Costs
// below MinBCryptCost are raised to DefaultBCryptCost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	if cost < MinBCryptCost {
		cost = DefaultBCryptCost
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}
