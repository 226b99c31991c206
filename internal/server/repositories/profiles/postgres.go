package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/questlog/internal/common"
	"github.com/dmitrijs2005/questlog/internal/dbx"
	"github.com/dmitrijs2005/questlog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) error {
	query :=
		`INSERT INTO profiles (id, display_name, xp)
		 VALUES ($1, $2, $3)`

	displayName := sql.NullString{String: profile.DisplayName, Valid: profile.DisplayName != ""}
	if _, err := r.db.ExecContext(ctx, query, profile.ID, displayName, profile.XP); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query :=
		`SELECT id, display_name, xp FROM profiles
		 WHERE id = $1`

	var displayName sql.NullString
	p := &models.Profile{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &displayName, &p.XP); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.DisplayName = displayName.String
	return p, nil
}
