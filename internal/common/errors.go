package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("Invalid login credentials")
	ErrorEmailNotConfirmed  = errors.New("Email not confirmed")
	ErrorUnknownProcedure   = errors.New("unknown procedure")

	// Validation errors.
	ErrorInvalidEmail    = errors.New("invalid email address")
	ErrorWeakPassword    = errors.New("Password should be at least 6 characters")
	ErrorDisplayNameSize = errors.New("display name must be at least 3 characters")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
