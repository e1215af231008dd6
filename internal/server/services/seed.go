package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/auth"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
)

// SeedAdmin creates the bootstrap admin on first boot. It does nothing when
// username or password is empty, or when the user already exists. It reports
// whether a user was created.
func SeedAdmin(ctx context.Context, directory *Directory, hasher *auth.Hasher, username, password string, logger logging.Logger) (bool, error) {
	if username == "" {
		return false, nil
	}
	if password == "" {
		logger.Warn(ctx, "admin username configured without password, skipping seed", "username", username)
		return false, nil
	}

	existing, err := directory.Find(ctx, username)
	if err != nil {
		return false, fmt.Errorf("checking admin user: %w", err)
	}
	if existing != nil {
		logger.Debug(ctx, "admin user exists, skipping seed", "username", username)
		return false, nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}

	admin := models.User{Username: username, HashedPassword: hash, IsAdmin: true, Verified: true}
	if _, err := directory.Save(ctx, admin, SaveCreateOnly); err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}

	logger.Warn(ctx, "bootstrap admin account created", "username", username)
	return true, nil
}
