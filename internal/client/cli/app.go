package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophgate/internal/client/client"
	"github.com/dmitrijs2005/gophgate/internal/client/config"
	"github.com/dmitrijs2005/gophgate/internal/rpc"
)

// accessClient is what the commands need from client.GRPCClient.
type accessClient interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, password string) (*rpc.User, error)
	Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error)
	Logout()
	LoggedIn() bool
	Verify(ctx context.Context, username, password, passcode string) (*rpc.User, error)
	Me(ctx context.Context) (*rpc.User, error)
	DeleteMe(ctx context.Context) error
	GetUser(ctx context.Context, username string) (*rpc.User, error)
	ListUsers(ctx context.Context) ([]rpc.User, error)
	SetAdmin(ctx context.Context, username string, isAdmin bool) (*rpc.User, error)
	SetBanned(ctx context.Context, username string, banned bool) (*rpc.User, error)
	RenameUser(ctx context.Context, username, newUsername string) (*rpc.User, error)
	DeleteUser(ctx context.Context, username string) error
	GetPasscode(ctx context.Context) (string, error)
	RotatePasscode(ctx context.Context, passcode string) (int64, error)
	Close() error
}

type App struct {
	config   *config.Config
	client   accessClient
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run starts the REPL and closes the connection when it ends.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

// callCtx bounds a single request by the configured timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 10 * time.Second
	if a.config != nil && a.config.RequestTimeout > 0 {
		timeout = a.config.RequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
