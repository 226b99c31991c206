// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/questlog/internal/server/models"
)

type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a single token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser removes every token issued to userID.
	DeleteByUser(ctx context.Context, userID string) error
}
