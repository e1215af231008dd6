package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophgate/internal/rpc"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toWireUser(u *models.User) rpc.User {
	p := u.Public()
	return rpc.User{
		ID:        p.ID,
		Username:  p.Username,
		IsAdmin:   p.IsAdmin,
		Verified:  p.Verified,
		Banned:    p.Banned,
		CreatedAt: p.CreatedAt,
	}
}

// caller returns the user placed in ctx by authInterceptor.
func (s *GRPCServer) caller(ctx context.Context) (*models.User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return nil, unauthenticated(ctx)
	}
	return u, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.UserResponse, error) {
	u, err := s.svc.Sessions.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.UserResponse{User: toWireUser(u)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	tok, err := s.svc.Sessions.Login(ctx, req.Username, req.Password)
	s.metrics.Login(err == nil)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.LoginResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType, ExpiresAt: tok.ExpiresAt}, nil
}

func (s *GRPCServer) Verify(ctx context.Context, req *rpc.VerifyRequest) (*rpc.UserResponse, error) {
	u, err := s.svc.Gate.VerifyWithPasscode(ctx, req.Username, req.Password, req.Passcode)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.UserResponse{User: toWireUser(u)}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *rpc.Empty) (*rpc.UserResponse, error) {
	u, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	return &rpc.UserResponse{User: toWireUser(u)}, nil
}

func (s *GRPCServer) DeleteMe(ctx context.Context, _ *rpc.Empty) (*rpc.Empty, error) {
	u, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Directory.Delete(ctx, u.Username); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "user deleted own account", "username", u.Username)
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *rpc.GetUserRequest) (*rpc.UserResponse, error) {
	u, err := s.svc.Directory.Require(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.UserResponse{User: toWireUser(u)}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *rpc.Empty) (*rpc.ListUsersResponse, error) {
	list, err := s.svc.Directory.ListAll(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := make([]rpc.User, 0, len(list))
	for i := range list {
		out = append(out, toWireUser(&list[i]))
	}
	return &rpc.ListUsersResponse{Users: out}, nil
}

func (s *GRPCServer) SetAdmin(ctx context.Context, req *rpc.SetAdminRequest) (*rpc.UserResponse, error) {
	actor, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.Admin.SetAdmin(ctx, actor, req.Username, req.IsAdmin)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.UserResponse{User: toWireUser(u)}, nil
}

func (s *GRPCServer) SetBanned(ctx context.Context, req *rpc.SetBannedRequest) (*rpc.UserResponse, error) {
	actor, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.Admin.SetBanned(ctx, actor, req.Username, req.Banned)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.UserResponse{User: toWireUser(u)}, nil
}

func (s *GRPCServer) RenameUser(ctx context.Context, req *rpc.RenameUserRequest) (*rpc.UserResponse, error) {
	actor, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.Admin.RenameUser(ctx, actor, req.Username, req.NewUsername)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.UserResponse{User: toWireUser(u)}, nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *rpc.DeleteUserRequest) (*rpc.Empty, error) {
	actor, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Admin.DeleteUser(ctx, actor, req.Username); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetPasscode(ctx context.Context, _ *rpc.Empty) (*rpc.PasscodeResponse, error) {
	actor, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	code, err := s.svc.Gate.Passcode(actor)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PasscodeResponse{Passcode: code}, nil
}

func (s *GRPCServer) RotatePasscode(ctx context.Context, req *rpc.RotatePasscodeRequest) (*rpc.RotatePasscodeResponse, error) {
	actor, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Passcode == "" {
		return nil, status.Error(codes.InvalidArgument, "passcode must not be empty")
	}
	revoked, err := s.svc.Gate.RotatePasscode(ctx, actor, req.Passcode)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.metrics.PasscodeRotated(revoked)
	return &rpc.RotatePasscodeResponse{Revoked: revoked}, nil
}
