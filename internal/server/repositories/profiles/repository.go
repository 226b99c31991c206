// Package profiles stores the public profile that accompanies every account.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/questlog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	// GetByID returns common.ErrorNotFound when the user has no profile row.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}
