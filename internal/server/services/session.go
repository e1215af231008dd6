package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/auth"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
)

// TokenTypeBearer is the token_type reported alongside access tokens.
const TokenTypeBearer = "bearer"

// DefaultAccessTokenTTL is the expiry horizon of issued access tokens.
const DefaultAccessTokenTTL = 30 * time.Minute

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// Token is a freshly minted access token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// SessionIssuer authenticates credentials and mints access tokens.
type SessionIssuer struct {
	directory *Directory
	hasher    *auth.Hasher
	codec     *auth.Codec
	ttl       time.Duration
	logger    logging.Logger

	// dummyHash is compared against when the user does not exist, so both
	// failure paths pay for one bcrypt comparison.
	dummyHash string
	now       func() time.Time
}

func NewSessionIssuer(directory *Directory, hasher *auth.Hasher, codec *auth.Codec, ttl time.Duration, logger logging.Logger) (*SessionIssuer, error) {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	dummy, err := hasher.Hash("gophgate:no-such-user")
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &SessionIssuer{
		directory: directory,
		hasher:    hasher,
		codec:     codec,
		ttl:       ttl,
		logger:    logger,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Authenticate returns the user when the password matches and (nil, nil)
// otherwise. An unknown username and a wrong password are indistinguishable.
func (s *SessionIssuer) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.directory.Find(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.hasher.Verify(password, s.dummyHash)
		return nil, nil
	}
	if !s.hasher.Verify(password, u.HashedPassword) {
		return nil, nil
	}
	return u, nil
}

// Login authenticates and mints a token whose subject is the username.
func (s *SessionIssuer) Login(ctx context.Context, username, password string) (*Token, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Error(ctx, "authenticate failed", "error", err)
		return nil, common.ErrorInternal
	}
	if u == nil || u.Banned {
		s.logger.Info(ctx, "login rejected", "username", username)
		return nil, common.ErrorUnauthorized
	}

	exp := s.now().Add(s.ttl)
	access, err := s.codec.Encode(u.Username, exp)
	if err != nil {
		s.logger.Error(ctx, "token encode failed", "error", err)
		return nil, common.ErrorInternal
	}
	return &Token{AccessToken: access, TokenType: TokenTypeBearer, ExpiresAt: exp}, nil
}

// Register creates a plain user. A taken username yields common.ErrorConflict.
func (s *SessionIssuer) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	u, err := s.directory.Save(ctx, models.User{Username: username, HashedPassword: hash}, SaveCreateOnly)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "username", u.Username)
	return u, nil
}

func validateCredentials(username, password string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username must be 1-64 characters of letters, digits, '_', '.' or '-'", common.ErrorValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", common.ErrorValidation)
	}
	if len(password) > auth.MaxPasswordBytes {
		return fmt.Errorf("%w: %w", common.ErrorValidation, auth.ErrPasswordTooLong)
	}
	return nil
}
