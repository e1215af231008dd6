// Package users declares the persistence contract for user records and its
// PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophgate/internal/server/models"
)

// Repository stores users keyed by username. Each method is atomic for the
// single record it touches. Lookups return common.ErrorNotFound when the
// username is absent; writes that would duplicate a username return
// common.ErrorConflict.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	Rename(ctx context.Context, oldName, newName string) (*models.User, error)

	// MarkVerified sets verified=true unless the user is banned. A banned or
	// absent user yields common.ErrorNotFound.
	MarkVerified(ctx context.Context, username string) (*models.User, error)

	// SetAdmin and SetBanned write a single flag and leave every other
	// column as stored.
	SetAdmin(ctx context.Context, username string, isAdmin bool) (*models.User, error)
	SetBanned(ctx context.Context, username string, banned bool) (*models.User, error)

	// Delete removes the user; deleting an absent user is not an error.
	Delete(ctx context.Context, username string) error

	List(ctx context.Context) ([]models.User, error)

	// RevokeVerification clears the verified flag of every non-admin user
	// and returns the number of records changed.
	RevokeVerification(ctx context.Context) (int64, error)
}
