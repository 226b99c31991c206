package client

import "context"

// Client is the client-side view of the Identity & Data Service.
//
// GetUser returns (nil, nil) when nobody is signed in, and GetProfile returns
// (nil, nil) when the principal has no profile row; both are valid results,
// not errors. Failures carry a *ServiceError with the service's message.
type Client interface {
	SignUp(ctx context.Context, email, password, displayName string) error
	SignInWithPassword(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	GetUser(ctx context.Context) (*Principal, error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	RPC(ctx context.Context, name string) error
	VerifyEmail(ctx context.Context, token string) error
	Ping(ctx context.Context) error
	Close() error
}
