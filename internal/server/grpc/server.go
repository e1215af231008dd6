// Package grpc exposes the authentication core over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/rpc"
	"github.com/dmitrijs2005/gophgate/internal/server/metrics"
	"github.com/dmitrijs2005/gophgate/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
)

// Services are the core components the handlers delegate to.
type Services struct {
	Gate      *services.Gate
	Sessions  *services.SessionIssuer
	Directory *services.Directory
	Admin     *services.AdminService
}

type GRPCServer struct {
	rpc.UnimplementedAccessServiceServer
	address string
	svc     Services
	metrics *metrics.Metrics
	logger  logging.Logger
}

// NewGRPCServer builds the server. A nil m gets a private registry.
func NewGRPCServer(address string, l logging.Logger, svc Services, m *metrics.Metrics) *GRPCServer {
	if m == nil {
		m = metrics.NewMetrics(prometheus.NewRegistry())
	}
	return &GRPCServer{
		address: address,
		svc:     svc,
		metrics: m,
		logger:  l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.authInterceptor))
	rpc.RegisterAccessServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
