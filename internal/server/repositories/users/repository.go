// Package users declares and implements storage for account credentials.
package users

import (
	"context"

	"github.com/dmitrijs2005/questlog/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills in the generated id and creation time.
	// A duplicate email (case-insensitive) yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// ConfirmEmail marks the owner of token as confirmed and clears the token.
	ConfirmEmail(ctx context.Context, token string) (*models.User, error)
	// Delete removes the user. Rows owned by the user go with it through
	// ON DELETE CASCADE.
	Delete(ctx context.Context, id string) error
}
