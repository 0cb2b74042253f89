package accounts

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNoEmptyString is returned when a required string value is empty
var ErrNoEmptyString = goerrors.New("value should not be an empty string", goerrors.CategoryBadInput).
	WithTextCode("EMPTY_STRING")

// ErrMismatchedHashAndPassword is the uniform credential failure. It covers
// both "no such account" and "wrong password" so callers cannot enumerate
// accounts from the error shape.
var ErrMismatchedHashAndPassword = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS")

// ErrDuplicateEmail is returned when a registration email is already taken
var ErrDuplicateEmail = goerrors.New("email is already registered", goerrors.CategoryConflict).
	WithTextCode("DUPLICATE_EMAIL")

// ErrDuplicatePhone is returned when a registration phone number is already taken
var ErrDuplicatePhone = goerrors.New("phone number is already registered", goerrors.CategoryConflict).
	WithTextCode("DUPLICATE_PHONE")

// ErrDuplicateAccount surfaces a uniqueness constraint violation reported by
// the directory's backing store on account creation
var ErrDuplicateAccount = goerrors.New("account already exists", goerrors.CategoryConflict).
	WithTextCode("DUPLICATE_ACCOUNT")

// ErrTokenMalformed is returned for tokens whose signature or structure fails
// verification
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("INVALID_TOKEN")

// ErrTokenExpired is returned for tokens past their expiry
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED")

// ErrCodeMismatch is returned when the supplied activation code does not match
// the code embedded in the activation token
var ErrCodeMismatch = goerrors.New("invalid activation code", goerrors.CategoryBadInput).
	WithTextCode("CODE_MISMATCH")

// ErrAccountAlreadyActivated guards replayed activation tokens: the embedded
// email already resolves to a durable account
var ErrAccountAlreadyActivated = goerrors.New("account already activated", goerrors.CategoryConflict).
	WithTextCode("ACCOUNT_ALREADY_ACTIVATED")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsValidationError reports whether the caller's input was rejected, as
// opposed to an infrastructure failure.
func IsValidationError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	switch richErr.Category {
	case goerrors.CategoryBadInput,
		goerrors.CategoryValidation,
		goerrors.CategoryConflict,
		goerrors.CategoryAuth:
		return true
	default:
		return false
	}
}
