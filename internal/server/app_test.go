package server

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/config"
	"github.com/dmitrijs2005/gophgate/internal/server/passcode"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.MetricsAddr = ""
	c.SecretKey = strings.Repeat("s", 32)
	c.BcryptCost = 4
	c.DefaultPasscode = "first"
	c.AdminUsername = "root"
	c.AdminPassword = "rootpass"
	return c
}

type failingManager struct {
	*repotest.Manager
}

func (failingManager) RunMigrations(context.Context, *sql.DB) error {
	return errors.New("boom")
}

func withSeams(t *testing.T, mgr repomanager.RepositoryManager) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	oldOpen, oldManager, oldS3 := openDB, newRepositoryManager, newS3Client
	t.Cleanup(func() {
		openDB, newRepositoryManager, newS3Client = oldOpen, oldManager, oldS3
	})

	openDB = func(context.Context, string) (*sql.DB, error) { return db, nil }
	newRepositoryManager = func() repomanager.RepositoryManager { return mgr }

	return db, mock
}

func nopLogger() logging.Logger {
	return logging.NewZapLogger(zap.NewNop())
}

func TestNewApp_WiresComponents(t *testing.T) {
	mgr := repotest.NewManager()
	_, mock := withSeams(t, mgr)

	app, err := NewApp(context.Background(), testConfig(), nopLogger())
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.Equal(t, "first", app.register.Get())

	stored, err := mgr.SettingsRepo.Get(context.Background(), passcode.SettingsKey)
	require.NoError(t, err)
	assert.Equal(t, "first", stored)

	root, ok := mgr.UsersRepo.Get("root")
	require.True(t, ok, "bootstrap admin must be seeded")
	assert.True(t, root.IsAdmin)
	assert.True(t, root.Verified)
	assert.NotEqual(t, "rootpass", root.HashedPassword)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_KeepsPersistedPasscode(t *testing.T) {
	mgr := repotest.NewManager()
	require.NoError(t, mgr.SettingsRepo.Set(context.Background(), passcode.SettingsKey, "persisted"))
	withSeams(t, mgr)

	app, err := NewApp(context.Background(), testConfig(), nopLogger())
	require.NoError(t, err)
	assert.Equal(t, "persisted", app.register.Get())
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		withSeams(t, repotest.NewManager())
		openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }

		_, err := NewApp(context.Background(), testConfig(), nopLogger())
		assert.EqualError(t, err, "refused")
	})

	t.Run("migrations close the db", func(t *testing.T) {
		_, mock := withSeams(t, failingManager{repotest.NewManager()})
		mock.ExpectClose()

		_, err := NewApp(context.Background(), testConfig(), nopLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migration error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short secret", func(t *testing.T) {
		_, mock := withSeams(t, repotest.NewManager())
		mock.ExpectClose()

		c := testConfig()
		c.SecretKey = "short"
		_, err := NewApp(context.Background(), c, nopLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token codec")
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, mock := withSeams(t, repotest.NewManager())
		mock.ExpectClose()

		c := testConfig()
		c.PasscodeBackend = "redis"
		_, err := NewApp(context.Background(), c, nopLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown passcode backend")
	})
}

type memObjects struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (m *memObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func TestNewApp_S3Backend(t *testing.T) {
	withSeams(t, repotest.NewManager())

	objects := &memObjects{data: map[string][]byte{}}
	var got passcode.S3Options
	newS3Client = func(_ context.Context, o passcode.S3Options) (passcode.ObjectAPI, error) {
		got = o
		return objects, nil
	}

	c := testConfig()
	c.PasscodeBackend = config.PasscodeBackendS3

	app, err := NewApp(context.Background(), c, nopLogger())
	require.NoError(t, err)

	assert.Equal(t, c.S3RootUser, got.AccessKey)
	assert.Equal(t, c.S3BaseEndpoint, got.BaseEndpoint)
	assert.Equal(t, "first", app.register.Get())
	assert.Equal(t, "first", string(objects.data[c.S3Bucket+"/"+c.S3PasscodeKey]))
}

func TestNewApp_S3ClientError(t *testing.T) {
	_, mock := withSeams(t, repotest.NewManager())
	mock.ExpectClose()
	newS3Client = func(context.Context, passcode.S3Options) (passcode.ObjectAPI, error) {
		return nil, errors.New("no creds")
	}

	c := testConfig()
	c.PasscodeBackend = config.PasscodeBackendS3

	_, err := NewApp(context.Background(), c, nopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 client")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	mgr := repotest.NewManager()
	_, mock := withSeams(t, mgr)
	mock.ExpectClose()

	app, err := NewApp(context.Background(), testConfig(), nopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_RunStopsOnListenError(t *testing.T) {
	_, mock := withSeams(t, repotest.NewManager())
	mock.ExpectClose()

	c := testConfig()
	c.EndpointAddrGRPC = "bad-address"

	app, err := NewApp(context.Background(), c, nopLogger())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after listen error")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
