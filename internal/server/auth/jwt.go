// Package auth holds the stateless credential primitives: bcrypt password
// hashing and HS256 access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum HMAC key size in bytes (256 bits).
const MinSecretLength = 32

// Claims is the decoded content of an access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Codec signs and verifies access tokens carrying sub and exp.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec for secret. It fails with common.ErrInvalidSecret
// when the key is shorter than MinSecretLength.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, common.ErrInvalidSecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{secret: key}, nil
}

// Encode returns a signed token for subject expiring at expiry.
// The expiry is truncated to whole seconds.
func (c *Codec) Encode(subject string, expiry time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiry),
	})

	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return s, nil
}

// Decode verifies the signature and expiry of tokenString.
// Expired tokens yield common.ErrTokenExpired; any other defect, including
// a missing exp or sub, yields an error wrapping common.ErrInvalidToken.
func (c *Codec) Decode(tokenString string) (Claims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, common.ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	return Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}
