package client

import (
	"errors"

	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// ServiceError is a failure reported by the Identity & Data Service. Message
// is the human-readable text exactly as the service sent it.
type ServiceError struct {
	Code    codes.Code
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Is lets callers match transport classes with errors.Is.
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == codes.Unauthenticated || e.Code == codes.PermissionDenied
	case ErrUnavailable:
		return e.Code == codes.Unavailable || e.Code == codes.DeadlineExceeded
	}
	return false
}

// ErrorMessage returns the text to show a user for err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
