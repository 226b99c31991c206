package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/questlog/internal/dbx"
	"github.com/dmitrijs2005/questlog/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/questlog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/questlog/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
