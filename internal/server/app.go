// Package server initializes and runs the GophGate server.
// It opens the database, applies migrations, restores the shared passcode,
// seeds the bootstrap admin, and serves gRPC and metrics until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/auth"
	"github.com/dmitrijs2005/gophgate/internal/server/config"
	"github.com/dmitrijs2005/gophgate/internal/server/metrics"
	"github.com/dmitrijs2005/gophgate/internal/server/passcode"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophgate/internal/server/services"
	"github.com/dmitrijs2005/gophgate/internal/server/shared/db"
	"github.com/prometheus/client_golang/prometheus"

	gs "github.com/dmitrijs2005/gophgate/internal/server/grpc"
)

// seams for tests
var (
	openDB               = db.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	newS3Client          = func(ctx context.Context, o passcode.S3Options) (passcode.ObjectAPI, error) {
		return passcode.NewS3Client(ctx, o)
	}
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	register *passcode.Register
	metrics  *metrics.Metrics
	server   *gs.GRPCServer
}

// NewApp wires every component from c. On error, anything opened so far
// is closed.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	conn, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	app, err := newApp(ctx, c, logger, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, conn *sql.DB) (*App, error) {
	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := auth.NewHasher(c.BcryptCost)
	codec, err := auth.NewCodec([]byte(c.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	store, err := passcodeStore(ctx, c, rm, conn)
	if err != nil {
		return nil, err
	}
	register := passcode.NewRegister(store)
	if err := register.Init(ctx, c.DefaultPasscode); err != nil {
		return nil, fmt.Errorf("passcode init: %w", err)
	}

	directory := services.NewDirectory(conn, rm)
	resolver := services.NewIdentityResolver(codec, directory, logger)
	sessions, err := services.NewSessionIssuer(directory, hasher, codec, c.AccessTokenValidityDuration, logger)
	if err != nil {
		return nil, fmt.Errorf("session issuer: %w", err)
	}

	if _, err := services.SeedAdmin(ctx, directory, hasher, c.AdminUsername, c.AdminPassword, logger); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	gate := services.NewGate(resolver, sessions, directory, register, logger)
	admin := services.NewAdminService(directory, logger)

	m := metrics.NewMetrics(prometheus.NewRegistry())
	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gs.Services{
		Gate:      gate,
		Sessions:  sessions,
		Directory: directory,
		Admin:     admin,
	}, m)

	return &App{
		config:   c,
		logger:   logger,
		db:       conn,
		register: register,
		metrics:  m,
		server:   srv,
	}, nil
}

func passcodeStore(ctx context.Context, c *config.Config, rm repomanager.RepositoryManager, conn *sql.DB) (passcode.Store, error) {
	switch c.PasscodeBackend {
	case config.PasscodeBackendS3:
		client, err := newS3Client(ctx, passcode.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return passcode.NewS3Store(client, c.S3Bucket, c.S3PasscodeKey), nil
	case config.PasscodeBackendPostgres, "":
		return passcode.NewSettingsStore(rm.Settings(conn)), nil
	default:
		return nil, fmt.Errorf("unknown passcode backend %q", c.PasscodeBackend)
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or SIGINT, SIGTERM or SIGQUIT arrives,
// then flushes the passcode and closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()
	app.shutdown()
}

func (app *App) shutdown() {
	ctx := context.Background()

	if err := app.register.Flush(ctx); err != nil {
		app.logger.Error(ctx, "passcode flush failed", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
