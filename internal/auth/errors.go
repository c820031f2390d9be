package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrAccountDeactivated    = errors.New("Account is deactivated")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)
