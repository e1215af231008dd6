// Package services contains the server-side authentication core: the user
// directory, identity resolution, the authorization gate and session issuing.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/dbx"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/repomanager"
)

// SaveMode selects how Directory.Save treats an existing username.
type SaveMode int

const (
	// SaveUpsert creates the user or overwrites the existing record.
	SaveUpsert SaveMode = iota
	// SaveCreateOnly fails with common.ErrorConflict if the username exists.
	SaveCreateOnly
	// SaveUpdateOnly fails with common.ErrorNotFound if the username is absent.
	SaveUpdateOnly
)

func (m SaveMode) String() string {
	switch m {
	case SaveUpsert:
		return "upsert"
	case SaveCreateOnly:
		return "create-only"
	case SaveUpdateOnly:
		return "update-only"
	default:
		return fmt.Sprintf("SaveMode(%d)", int(m))
	}
}

// Directory owns user records. It is the only writer of persistent identity
// state; callers get copies and hand them back through Save.
type Directory struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDirectory(db *sql.DB, m repomanager.RepositoryManager) *Directory {
	return &Directory{db: db, repomanager: m}
}

// Find looks the username up by exact, case-sensitive match. It returns
// (nil, nil) when the user does not exist.
func (d *Directory) Find(ctx context.Context, username string) (*models.User, error) {
	u, err := d.repomanager.Users(d.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Require is Find that fails with common.ErrorNotFound for absent users.
func (d *Directory) Require(ctx context.Context, username string) (*models.User, error) {
	u, err := d.Find(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %q: %w", username, common.ErrorNotFound)
	}
	return u, nil
}

// Save persists every mutable field of user according to mode.
func (d *Directory) Save(ctx context.Context, user models.User, mode SaveMode) (*models.User, error) {
	repo := d.repomanager.Users(d.db)

	var (
		u   *models.User
		err error
	)
	switch mode {
	case SaveCreateOnly:
		u, err = repo.Create(ctx, &user)
	case SaveUpdateOnly:
		u, err = repo.Update(ctx, &user)
	case SaveUpsert:
		u, err = repo.Upsert(ctx, &user)
	default:
		return nil, fmt.Errorf("%w: unknown save mode %v", common.ErrorValidation, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("save user %q (%v): %w", user.Username, mode, err)
	}
	return u, nil
}

// MarkVerified persists verified=true for a user that is not banned. A
// banned or absent user fails with common.ErrorNotFound.
func (d *Directory) MarkVerified(ctx context.Context, username string) (*models.User, error) {
	u, err := d.repomanager.Users(d.db).MarkVerified(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("mark user %q verified: %w", username, err)
	}
	return u, nil
}

func (d *Directory) SetAdmin(ctx context.Context, username string, isAdmin bool) (*models.User, error) {
	u, err := d.repomanager.Users(d.db).SetAdmin(ctx, username, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("set admin for %q: %w", username, err)
	}
	return u, nil
}

func (d *Directory) SetBanned(ctx context.Context, username string, banned bool) (*models.User, error) {
	u, err := d.repomanager.Users(d.db).SetBanned(ctx, username, banned)
	if err != nil {
		return nil, fmt.Errorf("set banned for %q: %w", username, err)
	}
	return u, nil
}

// Rename moves a user to a new username. It fails with common.ErrorNotFound
// when oldName is absent and with common.ErrorConflict when newName is taken.
func (d *Directory) Rename(ctx context.Context, oldName, newName string) (*models.User, error) {
	if newName == "" {
		return nil, fmt.Errorf("%w: new username must not be empty", common.ErrorValidation)
	}

	var renamed *models.User
	err := dbx.WithTx(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := d.repomanager.Users(tx)

		u, err := repo.GetByUsername(ctx, oldName)
		if err != nil {
			return err
		}
		if oldName == newName {
			renamed = u
			return nil
		}

		switch _, err := repo.GetByUsername(ctx, newName); {
		case err == nil:
			return common.ErrorConflict
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		renamed, err = repo.Rename(ctx, oldName, newName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rename user %q to %q: %w", oldName, newName, err)
	}
	return renamed, nil
}

// Delete removes the user. Deleting an absent user is a no-op.
func (d *Directory) Delete(ctx context.Context, username string) error {
	if err := d.repomanager.Users(d.db).Delete(ctx, username); err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	return nil
}

func (d *Directory) ListAll(ctx context.Context) ([]models.User, error) {
	users, err := d.repomanager.Users(d.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RevokeVerification clears the verified flag of every non-admin user in
// one statement and returns how many records changed.
func (d *Directory) RevokeVerification(ctx context.Context) (int64, error) {
	n, err := d.repomanager.Users(d.db).RevokeVerification(ctx)
	if err != nil {
		return 0, fmt.Errorf("revoke verification: %w", err)
	}
	return n, nil
}
