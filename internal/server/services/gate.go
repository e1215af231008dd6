package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
	"github.com/dmitrijs2005/gophgate/internal/server/passcode"
)

// Level is a trust level. Each level is a stricter filter over the previous.
type Level int

const (
	LevelPublic Level = iota
	LevelAuthenticated
	LevelVerified
	LevelAdmin
)

func (l Level) String() string {
	switch l {
	case LevelPublic:
		return "public"
	case LevelAuthenticated:
		return "authenticated"
	case LevelVerified:
		return "verified"
	case LevelAdmin:
		return "admin"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Gate derives the caller's trust level and runs the passcode workflow.
//
// Every refusal is common.ErrorUnauthorized: a missing token, an unknown
// user and an insufficient level look the same to the caller. Admins count
// as verified and are never touched by a passcode rotation. Banned users do
// not pass any level.
type Gate struct {
	resolver  *IdentityResolver
	sessions  *SessionIssuer
	directory *Directory
	register  *passcode.Register
	logger    logging.Logger
}

func NewGate(resolver *IdentityResolver, sessions *SessionIssuer, directory *Directory, register *passcode.Register, logger logging.Logger) *Gate {
	return &Gate{
		resolver:  resolver,
		sessions:  sessions,
		directory: directory,
		register:  register,
		logger:    logger,
	}
}

// Authorize resolves token and checks that the caller reaches level.
// LevelPublic still requires a resolvable token.
func (g *Gate) Authorize(ctx context.Context, token string, level Level) (*models.User, error) {
	u, err := g.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !Allows(u, level) {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}

// Allows reports whether u passes level.
func Allows(u *models.User, level Level) bool {
	if u == nil || u.Banned {
		return false
	}
	switch level {
	case LevelPublic, LevelAuthenticated:
		return true
	case LevelVerified:
		return u.IsVerified()
	case LevelAdmin:
		return u.IsAdmin
	default:
		return false
	}
}

// VerifyWithPasscode checks the credentials and the presented passcode and,
// on success, persists verified=true for the user.
func (g *Gate) VerifyWithPasscode(ctx context.Context, username, password, code string) (*models.User, error) {
	u, err := g.sessions.Authenticate(ctx, username, password)
	if err != nil {
		g.logger.Error(ctx, "authenticate failed", "error", err)
		return nil, common.ErrorInternal
	}
	if u == nil || u.Banned {
		return nil, common.ErrorUnauthorized
	}

	// u may be stale by now. The flag is written unconditionally and only
	// that column, so a ban or rotation committed since the lookup holds.
	var verified *models.User
	ok, err := g.register.Check(ctx, code, func(ctx context.Context) error {
		saved, err := g.directory.MarkVerified(ctx, u.Username)
		if err != nil {
			return err
		}
		verified = saved
		return nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		g.logger.Info(ctx, "user banned or removed during verification", "username", u.Username)
		return nil, common.ErrorUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		g.logger.Info(ctx, "passcode rejected", "username", u.Username)
		return nil, common.ErrorUnauthorized
	}

	g.logger.Info(ctx, "user verified", "username", verified.Username)
	return verified, nil
}

// RotatePasscode replaces the passcode and revokes the verified flag of all
// non-admin users. It returns the number of users revoked. The revocation
// and the swap happen under the register's lock, so no verification can
// observe a half-finished rotation.
func (g *Gate) RotatePasscode(ctx context.Context, actor *models.User, code string) (int64, error) {
	if !Allows(actor, LevelAdmin) {
		return 0, common.ErrorUnauthorized
	}

	var revoked int64
	err := g.register.Rotate(ctx, code, func(ctx context.Context) error {
		n, err := g.directory.RevokeVerification(ctx)
		if err != nil {
			return err
		}
		revoked = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	g.logger.Info(ctx, "passcode rotated", "admin", actor.Username, "revoked", revoked)
	return revoked, nil
}

// Passcode returns the current passcode to an admin.
func (g *Gate) Passcode(actor *models.User) (string, error) {
	if !Allows(actor, LevelAdmin) {
		return "", common.ErrorUnauthorized
	}
	return g.register.Get(), nil
}
