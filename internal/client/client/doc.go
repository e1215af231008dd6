// Package client contains the client side of the GophGate access API.
//
// # Overview
//
// GRPCClient manages a connection to the server, keeps the access token
// issued by Login in memory, attaches it as an "authorization: Bearer"
// header through a unary interceptor, and maps gRPC status codes to
// sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrConflict
// and ErrInvalidArgument.
//
// # Concurrency
//
// GRPCClient is safe for concurrent use. The token is guarded by a mutex.
package client
