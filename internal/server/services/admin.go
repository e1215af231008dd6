package services

import (
	"context"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
)

// AdminService holds the user-management operations reserved for admins.
// Each method re-checks the actor even though the transport already did.
type AdminService struct {
	directory *Directory
	logger    logging.Logger
}

func NewAdminService(directory *Directory, logger logging.Logger) *AdminService {
	return &AdminService{directory: directory, logger: logger}
}

func (s *AdminService) SetAdmin(ctx context.Context, actor *models.User, username string, isAdmin bool) (*models.User, error) {
	return s.update(ctx, actor, func(ctx context.Context) (*models.User, error) {
		return s.directory.SetAdmin(ctx, username, isAdmin)
	})
}

func (s *AdminService) SetBanned(ctx context.Context, actor *models.User, username string, banned bool) (*models.User, error) {
	return s.update(ctx, actor, func(ctx context.Context) (*models.User, error) {
		return s.directory.SetBanned(ctx, username, banned)
	})
}

func (s *AdminService) RenameUser(ctx context.Context, actor *models.User, oldName, newName string) (*models.User, error) {
	if !Allows(actor, LevelAdmin) {
		return nil, common.ErrorUnauthorized
	}
	u, err := s.directory.Rename(ctx, oldName, newName)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user renamed", "admin", actor.Username, "from", oldName, "to", newName)
	return u, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actor *models.User, username string) error {
	if !Allows(actor, LevelAdmin) {
		return common.ErrorUnauthorized
	}
	if err := s.directory.Delete(ctx, username); err != nil {
		return err
	}
	s.logger.Info(ctx, "user deleted", "admin", actor.Username, "username", username)
	return nil
}

// update checks the actor, then runs write. write must touch a single
// column, never the whole record.
func (s *AdminService) update(ctx context.Context, actor *models.User, write func(context.Context) (*models.User, error)) (*models.User, error) {
	if !Allows(actor, LevelAdmin) {
		return nil, common.ErrorUnauthorized
	}
	saved, err := write(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user updated", "admin", actor.Username, "username", saved.Username,
		"is_admin", saved.IsAdmin, "banned", saved.Banned)
	return saved, nil
}
