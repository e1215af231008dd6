// Package rpc is the wire contract of the AccessService: plain Go messages
// carried by a JSON gRPC codec, the service descriptor and a client stub.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophgate.AccessService"

// Full method names, as seen by interceptors.
const (
	MethodPing           = "/" + ServiceName + "/Ping"
	MethodRegister       = "/" + ServiceName + "/Register"
	MethodLogin          = "/" + ServiceName + "/Login"
	MethodVerify         = "/" + ServiceName + "/Verify"
	MethodMe             = "/" + ServiceName + "/Me"
	MethodDeleteMe       = "/" + ServiceName + "/DeleteMe"
	MethodGetUser        = "/" + ServiceName + "/GetUser"
	MethodListUsers      = "/" + ServiceName + "/ListUsers"
	MethodSetAdmin       = "/" + ServiceName + "/SetAdmin"
	MethodSetBanned      = "/" + ServiceName + "/SetBanned"
	MethodRenameUser     = "/" + ServiceName + "/RenameUser"
	MethodDeleteUser     = "/" + ServiceName + "/DeleteUser"
	MethodGetPasscode    = "/" + ServiceName + "/GetPasscode"
	MethodRotatePasscode = "/" + ServiceName + "/RotatePasscode"
)

type AccessServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*UserResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Verify(context.Context, *VerifyRequest) (*UserResponse, error)
	Me(context.Context, *Empty) (*UserResponse, error)
	DeleteMe(context.Context, *Empty) (*Empty, error)
	GetUser(context.Context, *GetUserRequest) (*UserResponse, error)
	ListUsers(context.Context, *Empty) (*ListUsersResponse, error)
	SetAdmin(context.Context, *SetAdminRequest) (*UserResponse, error)
	SetBanned(context.Context, *SetBannedRequest) (*UserResponse, error)
	RenameUser(context.Context, *RenameUserRequest) (*UserResponse, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*Empty, error)
	GetPasscode(context.Context, *Empty) (*PasscodeResponse, error)
	RotatePasscode(context.Context, *RotatePasscodeRequest) (*RotatePasscodeResponse, error)
}

func unary[Req, Resp any](name string, call func(AccessServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				out, err := call(srv.(AccessServiceServer), ctx, req.(*Req))
				if err != nil {
					return nil, err
				}
				return out, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccessServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", AccessServiceServer.Ping),
		unary("Register", AccessServiceServer.Register),
		unary("Login", AccessServiceServer.Login),
		unary("Verify", AccessServiceServer.Verify),
		unary("Me", AccessServiceServer.Me),
		unary("DeleteMe", AccessServiceServer.DeleteMe),
		unary("GetUser", AccessServiceServer.GetUser),
		unary("ListUsers", AccessServiceServer.ListUsers),
		unary("SetAdmin", AccessServiceServer.SetAdmin),
		unary("SetBanned", AccessServiceServer.SetBanned),
		unary("RenameUser", AccessServiceServer.RenameUser),
		unary("DeleteUser", AccessServiceServer.DeleteUser),
		unary("GetPasscode", AccessServiceServer.GetPasscode),
		unary("RotatePasscode", AccessServiceServer.RotatePasscode),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophgate/access",
}

func RegisterAccessServiceServer(s grpc.ServiceRegistrar, srv AccessServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// UnimplementedAccessServiceServer answers every method with
// codes.Unimplemented. Embed it to implement a subset of the service.
type UnimplementedAccessServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedAccessServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedAccessServiceServer) Register(context.Context, *RegisterRequest) (*UserResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedAccessServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedAccessServiceServer) Verify(context.Context, *VerifyRequest) (*UserResponse, error) {
	return nil, unimplemented("Verify")
}
func (UnimplementedAccessServiceServer) Me(context.Context, *Empty) (*UserResponse, error) {
	return nil, unimplemented("Me")
}
func (UnimplementedAccessServiceServer) DeleteMe(context.Context, *Empty) (*Empty, error) {
	return nil, unimplemented("DeleteMe")
}
func (UnimplementedAccessServiceServer) GetUser(context.Context, *GetUserRequest) (*UserResponse, error) {
	return nil, unimplemented("GetUser")
}
func (UnimplementedAccessServiceServer) ListUsers(context.Context, *Empty) (*ListUsersResponse, error) {
	return nil, unimplemented("ListUsers")
}
func (UnimplementedAccessServiceServer) SetAdmin(context.Context, *SetAdminRequest) (*UserResponse, error) {
	return nil, unimplemented("SetAdmin")
}
func (UnimplementedAccessServiceServer) SetBanned(context.Context, *SetBannedRequest) (*UserResponse, error) {
	return nil, unimplemented("SetBanned")
}
func (UnimplementedAccessServiceServer) RenameUser(context.Context, *RenameUserRequest) (*UserResponse, error) {
	return nil, unimplemented("RenameUser")
}
func (UnimplementedAccessServiceServer) DeleteUser(context.Context, *DeleteUserRequest) (*Empty, error) {
	return nil, unimplemented("DeleteUser")
}
func (UnimplementedAccessServiceServer) GetPasscode(context.Context, *Empty) (*PasscodeResponse, error) {
	return nil, unimplemented("GetPasscode")
}
func (UnimplementedAccessServiceServer) RotatePasscode(context.Context, *RotatePasscodeRequest) (*RotatePasscodeResponse, error) {
	return nil, unimplemented("RotatePasscode")
}
