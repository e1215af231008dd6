package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/rpc"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
	"github.com/dmitrijs2005/gophgate/internal/server/services"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

// RequestIDHeaderName is the response header carrying the request id.
const RequestIDHeaderName = "x-request-id"

// methodLevels maps each method to the trust level it requires. Methods
// missing from the table require admin.
var methodLevels = map[string]services.Level{
	rpc.MethodPing:           services.LevelPublic,
	rpc.MethodRegister:       services.LevelPublic,
	rpc.MethodLogin:          services.LevelPublic,
	rpc.MethodVerify:         services.LevelPublic,
	rpc.MethodMe:             services.LevelAuthenticated,
	rpc.MethodDeleteMe:       services.LevelVerified,
	rpc.MethodGetUser:        services.LevelVerified,
	rpc.MethodListUsers:      services.LevelVerified,
	rpc.MethodSetAdmin:       services.LevelAdmin,
	rpc.MethodSetBanned:      services.LevelAdmin,
	rpc.MethodRenameUser:     services.LevelAdmin,
	rpc.MethodDeleteUser:     services.LevelAdmin,
	rpc.MethodGetPasscode:    services.LevelAdmin,
	rpc.MethodRotatePasscode: services.LevelAdmin,
}

func levelFor(fullMethod string) services.Level {
	if l, ok := methodLevels[fullMethod]; ok {
		return l
	}
	return services.LevelAdmin
}

func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the caller resolved by the auth interceptor.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// bearerToken extracts the token from the authorization metadata. A missing
// or malformed header yields "".
func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	token, ok := common.ParseBearer(values[0])
	if !ok {
		return ""
	}
	return token
}

// unauthenticated builds the single error every auth refusal maps to.
func unauthenticated(ctx context.Context) error {
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.WWWAuthenticateHeaderName, common.BearerScheme))
	return status.Error(codes.Unauthenticated, "could not validate credentials")
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	level := levelFor(info.FullMethod)
	if level == services.LevelPublic {
		return handler(ctx, req)
	}

	u, err := s.svc.Gate.Authorize(ctx, bearerToken(ctx), level)
	if err != nil {
		s.metrics.AuthFailure(level.String())
		return nil, unauthenticated(ctx)
	}

	return handler(withUser(ctx, u), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	requestID := uuid.NewString()
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeaderName, requestID))

	resp, err := handler(ctx, req)

	code := status.Code(err)
	elapsed := time.Since(start)
	s.metrics.ObserveRequest(info.FullMethod, code.String(), elapsed)

	args := []any{"request_id", requestID, "method", info.FullMethod, "code", code.String(), "duration", elapsed}
	switch code {
	case codes.OK:
		s.logger.Info(ctx, "request", args...)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "request", args...)
	default:
		s.logger.Warn(ctx, "request", args...)
	}
	return resp, err
}
