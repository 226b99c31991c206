package account

import (
	"context"

	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/logging"
)

// FallbackIdentity is shown when nothing better is known about the user.
const FallbackIdentity = "User"

// IdentityResolver picks the name to greet the signed-in user with.
type IdentityResolver struct {
	svc client.Client
	log logging.Logger
}

// NewIdentityResolver returns a resolver that asks svc on every call.
func NewIdentityResolver(svc client.Client, log logging.Logger) *IdentityResolver {
	return &IdentityResolver{svc: svc, log: log.With("module", "identity")}
}

// Resolve returns the label for the signed-in user: the profile display
// name, else the account email, else FallbackIdentity. Lookup failures are
// logged and treated as missing data. Nothing is cached.
func (r *IdentityResolver) Resolve(ctx context.Context) string {
	principal, err := r.svc.GetUser(ctx)
	if err != nil {
		r.log.Warn(ctx, "current user lookup failed", "error", err)
		return FallbackIdentity
	}
	if principal == nil {
		return FallbackIdentity
	}

	profile, err := r.svc.GetProfile(ctx, principal.ID)
	if err != nil {
		r.log.Warn(ctx, "profile lookup failed", "user_id", principal.ID, "error", err)
	}
	if profile != nil && profile.DisplayName != "" {
		return profile.DisplayName
	}
	if principal.Email != "" {
		return principal.Email
	}
	return FallbackIdentity
}
