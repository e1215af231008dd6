package services

import (
	"context"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/auth"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
)

// IdentityResolver turns a bearer token into the caller's user record.
// It never mutates state and fails closed: every failure is
// common.ErrorUnauthorized.
type IdentityResolver struct {
	codec     *auth.Codec
	directory *Directory
	logger    logging.Logger
}

func NewIdentityResolver(codec *auth.Codec, directory *Directory, logger logging.Logger) *IdentityResolver {
	return &IdentityResolver{codec: codec, directory: directory, logger: logger}
}

func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := r.codec.Decode(token)
	if err != nil {
		r.logger.Debug(ctx, "token rejected", "error", err)
		return nil, common.ErrorUnauthorized
	}

	u, err := r.directory.Find(ctx, claims.Subject)
	if err != nil {
		r.logger.Error(ctx, "identity lookup failed", "error", err)
		return nil, common.ErrorUnauthorized
	}
	if u == nil {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}
