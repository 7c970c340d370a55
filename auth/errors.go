package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken indicates a bad signature, a malformed token, or an
	// elapsed expiry.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrEmptyUsername indicates registration with a blank username.
	ErrEmptyUsername = errors.New("username must not be empty")
)
