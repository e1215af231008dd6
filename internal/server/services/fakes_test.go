package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophgate/internal/dbx"
	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/dmitrijs2005/gophgate/internal/server/auth"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
	"github.com/dmitrijs2005/gophgate/internal/server/passcode"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/repotest"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	users     *repotest.Users
	settings  *repotest.Settings
	hasher    *auth.Hasher
	codec     *auth.Codec
	directory *Directory
	resolver  *IdentityResolver
	sessions  *SessionIssuer
	register  *passcode.Register
	gate      *Gate
	admin     *AdminService
	logger    logging.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:     db,
		mock:   mock,
		hasher: auth.NewHasher(bcrypt.MinCost),
		logger: logging.NewZapLogger(zap.NewNop()),
	}
	f.codec, err = auth.NewCodec(testSecret)
	require.NoError(t, err)

	rm := repotest.NewManager()
	f.users, f.settings = rm.UsersRepo, rm.SettingsRepo
	f.directory = NewDirectory(db, rm)
	f.resolver = NewIdentityResolver(f.codec, f.directory, f.logger)
	f.sessions, err = NewSessionIssuer(f.directory, f.hasher, f.codec, DefaultAccessTokenTTL, f.logger)
	require.NoError(t, err)
	f.register = passcode.NewRegister(passcode.NewSettingsStore(rm.Settings(db)))
	require.NoError(t, f.register.Init(context.Background(), "A"))
	f.gate = NewGate(f.resolver, f.sessions, f.directory, f.register, f.logger)
	f.admin = NewAdminService(f.directory, f.logger)
	return f
}

// addUser stores a user with the given password hashed at minimum cost.
func (f *fixture) addUser(t *testing.T, u models.User, password string) models.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	u.HashedPassword = hash
	f.users.Put(u)
	got, _ := f.users.Get(u.Username)
	return got
}

func (f *fixture) tokenFor(t *testing.T, username string) string {
	t.Helper()
	tok, err := f.codec.Encode(username, time.Now().Add(time.Minute))
	require.NoError(t, err)
	return tok
}

// lookupHook runs fn once, right after the first lookup of name returns.
// It lets a test commit a competing write between a service's read and
// its own write.
type lookupHook struct {
	*repotest.Users
	name string
	once sync.Once
	fn   func()
}

func (r *lookupHook) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := r.Users.GetByUsername(ctx, username)
	if username == r.name {
		r.once.Do(r.fn)
	}
	return u, err
}

type hookedManager struct {
	*repotest.Manager
	users users.Repository
}

func (m hookedManager) Users(dbx.DBTX) users.Repository { return m.users }

// afterLookup rewires the services so fn runs right after name is first
// looked up.
func (f *fixture) afterLookup(t *testing.T, name string, fn func()) {
	t.Helper()

	rm := hookedManager{
		Manager: &repotest.Manager{UsersRepo: f.users, SettingsRepo: f.settings},
		users:   &lookupHook{Users: f.users, name: name, fn: fn},
	}
	var err error
	f.directory = NewDirectory(f.db, rm)
	f.resolver = NewIdentityResolver(f.codec, f.directory, f.logger)
	f.sessions, err = NewSessionIssuer(f.directory, f.hasher, f.codec, DefaultAccessTokenTTL, f.logger)
	require.NoError(t, err)
	f.gate = NewGate(f.resolver, f.sessions, f.directory, f.register, f.logger)
	f.admin = NewAdminService(f.directory, f.logger)
}
