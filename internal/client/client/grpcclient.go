package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// accessAPI is the subset of rpc.AccessServiceClient used here.
type accessAPI interface {
	Ping(ctx context.Context, in *rpc.PingRequest, opts ...grpc.CallOption) (*rpc.PingResponse, error)
	Register(ctx context.Context, in *rpc.RegisterRequest, opts ...grpc.CallOption) (*rpc.UserResponse, error)
	Login(ctx context.Context, in *rpc.LoginRequest, opts ...grpc.CallOption) (*rpc.LoginResponse, error)
	Verify(ctx context.Context, in *rpc.VerifyRequest, opts ...grpc.CallOption) (*rpc.UserResponse, error)
	Me(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.UserResponse, error)
	DeleteMe(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.Empty, error)
	GetUser(ctx context.Context, in *rpc.GetUserRequest, opts ...grpc.CallOption) (*rpc.UserResponse, error)
	ListUsers(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.ListUsersResponse, error)
	SetAdmin(ctx context.Context, in *rpc.SetAdminRequest, opts ...grpc.CallOption) (*rpc.UserResponse, error)
	SetBanned(ctx context.Context, in *rpc.SetBannedRequest, opts ...grpc.CallOption) (*rpc.UserResponse, error)
	RenameUser(ctx context.Context, in *rpc.RenameUserRequest, opts ...grpc.CallOption) (*rpc.UserResponse, error)
	DeleteUser(ctx context.Context, in *rpc.DeleteUserRequest, opts ...grpc.CallOption) (*rpc.Empty, error)
	GetPasscode(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.PasscodeResponse, error)
	RotatePasscode(ctx context.Context, in *rpc.RotatePasscodeRequest, opts ...grpc.CallOption) (*rpc.RotatePasscodeResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      accessAPI

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerValue(token))

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the current token, if any, to every call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.Token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpointURL. Extra dial options are appended
// after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewAccessServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) LoggedIn() bool {
	return s.Token() != ""
}

// Logout forgets the token. Tokens are stateless, so nothing is sent.
func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, username, password string) (*rpc.User, error) {
	resp, err := s.client.Register(ctx, &rpc.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

// Login exchanges credentials for an access token and keeps it for later
// calls. A failed login leaves the previous token in place.
func (s *GRPCClient) Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.setToken(resp.AccessToken)
	return resp, nil
}

func (s *GRPCClient) Verify(ctx context.Context, username, password, passcode string) (*rpc.User, error) {
	resp, err := s.client.Verify(ctx, &rpc.VerifyRequest{Username: username, Password: password, Passcode: passcode})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) Me(ctx context.Context) (*rpc.User, error) {
	resp, err := s.client.Me(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

// DeleteMe removes the caller's account and drops the token on success.
func (s *GRPCClient) DeleteMe(ctx context.Context) error {
	if _, err := s.client.DeleteMe(ctx, &rpc.Empty{}); err != nil {
		return s.mapError(err)
	}
	s.setToken("")
	return nil
}

func (s *GRPCClient) GetUser(ctx context.Context, username string) (*rpc.User, error) {
	resp, err := s.client.GetUser(ctx, &rpc.GetUserRequest{Username: username})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]rpc.User, error) {
	resp, err := s.client.ListUsers(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Users, nil
}

func (s *GRPCClient) SetAdmin(ctx context.Context, username string, isAdmin bool) (*rpc.User, error) {
	resp, err := s.client.SetAdmin(ctx, &rpc.SetAdminRequest{Username: username, IsAdmin: isAdmin})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) SetBanned(ctx context.Context, username string, banned bool) (*rpc.User, error) {
	resp, err := s.client.SetBanned(ctx, &rpc.SetBannedRequest{Username: username, Banned: banned})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) RenameUser(ctx context.Context, username, newUsername string) (*rpc.User, error) {
	resp, err := s.client.RenameUser(ctx, &rpc.RenameUserRequest{Username: username, NewUsername: newUsername})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) DeleteUser(ctx context.Context, username string) error {
	if _, err := s.client.DeleteUser(ctx, &rpc.DeleteUserRequest{Username: username}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) GetPasscode(ctx context.Context) (string, error) {
	resp, err := s.client.GetPasscode(ctx, &rpc.Empty{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Passcode, nil
}

// RotatePasscode sets a new passcode and returns how many users lost their
// verified flag.
func (s *GRPCClient) RotatePasscode(ctx context.Context, passcode string) (int64, error) {
	resp, err := s.client.RotatePasscode(ctx, &rpc.RotatePasscodeRequest{Passcode: passcode})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Revoked, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrConflict
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
