package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophgate/internal/dbx"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/settings"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so callers pick
// between the pool and an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Settings(db dbx.DBTX) settings.Repository
}
