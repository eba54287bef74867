package auth

import "github.com/goliatone/go-errors"

// ErrIdentityNotFound is returned when no account matches the identifier.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrAccountNotConfirmed is returned when a login is attempted before the
// confirmation link was clicked.
var ErrAccountNotConfirmed = errors.New("account has not been confirmed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("ACCOUNT_NOT_CONFIRMED")

// ErrInvalidPassword is returned when the password does not match.
var ErrInvalidPassword = errors.New("password is incorrect", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_PASSWORD")

// ErrTokenNotFound is returned when a confirmation or reset token matched
// no account. It is terminal: there is no retry or regeneration path.
var ErrTokenNotFound = errors.New("token is invalid or already used", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_NOT_FOUND")

// ErrProofExpired is returned for session proofs past their expiry.
var ErrProofExpired = errors.New("session has expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("PROOF_EXPIRED")

// ErrProofInvalid covers tampered, malformed or wrongly signed proofs.
var ErrProofInvalid = errors.New("session proof is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("PROOF_INVALID")

// ErrNoEmptyString is returned by HashPassword for an empty input.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch error.
var ErrMismatchedHashAndPassword = errors.New("hashed password is not the hash of the given password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
