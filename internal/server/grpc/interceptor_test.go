package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
	"github.com/dmitrijs2005/gophgate/internal/server/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, services.LevelPublic, levelFor("/gophgate.AccessService/Login"))
	assert.Equal(t, services.LevelAuthenticated, levelFor("/gophgate.AccessService/Me"))
	assert.Equal(t, services.LevelVerified, levelFor("/gophgate.AccessService/ListUsers"))
	assert.Equal(t, services.LevelAdmin, levelFor("/gophgate.AccessService/RotatePasscode"))
	assert.Equal(t, services.LevelAdmin, levelFor("/gophgate.AccessService/Unknown"))
}

func TestBearerToken(t *testing.T) {
	in := func(v ...string) context.Context {
		md := metadata.MD{}
		for _, s := range v {
			md.Append("authorization", s)
		}
		return metadata.NewIncomingContext(context.Background(), md)
	}

	assert.Equal(t, "", bearerToken(context.Background()))
	assert.Equal(t, "", bearerToken(in()))
	assert.Equal(t, "abc", bearerToken(in("Bearer abc")))
	assert.Equal(t, "abc", bearerToken(in("bearer abc")))
	assert.Equal(t, "", bearerToken(in("Basic abc")))
	assert.Equal(t, "", bearerToken(in("abc")))
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserFromContext(withUser(context.Background(), nil))
	assert.False(t, ok)

	u, ok := UserFromContext(withUser(context.Background(), &models.User{Username: "alice"}))
	assert.True(t, ok)
	assert.Equal(t, "alice", u.Username)
}

func TestAuthInterceptor_PublicSkipsGate(t *testing.T) {
	s := NewGRPCServer("", logging.NewZapLogger(zap.NewNop()), Services{}, nil)
	info := &grpc.UnaryServerInfo{FullMethod: "/gophgate.AccessService/Ping"}

	called := false
	resp, err := s.authInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		called = true
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestToStatus(t *testing.T) {
	s := NewGRPCServer("", logging.NewZapLogger(zap.NewNop()), Services{}, nil)
	ctx := context.Background()

	cases := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrInvalidToken, codes.Unauthenticated},
		{common.ErrTokenExpired, codes.Unauthenticated},
		{fmt.Errorf("user %q: %w", "bob", common.ErrorNotFound), codes.NotFound},
		{fmt.Errorf("save: %w", common.ErrorConflict), codes.AlreadyExists},
		{fmt.Errorf("%w: bad", common.ErrorValidation), codes.InvalidArgument},
		{errors.New("db exploded"), codes.Internal},
	}
	for _, tc := range cases {
		err := s.toStatus(ctx, tc.err)
		assert.Equal(t, tc.code, status.Code(err), tc.err.Error())
	}

	assert.NoError(t, s.toStatus(ctx, nil))

	st, _ := status.FromError(s.toStatus(ctx, errors.New("secret detail")))
	assert.Equal(t, "internal error", st.Message())
}
