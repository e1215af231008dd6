// Package repotest provides in-memory repositories for tests of the layers
// above storage. They mirror the PostgreSQL repositories' error contract.
package repotest

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/dbx"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/settings"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/users"
)

// Users is a map-backed users.Repository. The *Err fields inject failures.
type Users struct {
	mu    sync.Mutex
	users map[string]models.User
	seq   int

	GetErr    error
	SaveErr   error
	RevokeErr error
}

func NewUsers() *Users {
	return &Users{users: map[string]models.User{}}
}

// Put stores u as is, filling ID and CreatedAt when empty.
func (f *Users) Put(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stamp(&u)
	f.users[u.Username] = u
}

// Get returns the stored record without going through the repository API.
func (f *Users) Get(name string) (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[name]
	return u, ok
}

func (f *Users) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *Users) stamp(u *models.User) {
	f.seq++
	if u.ID == "" {
		u.ID = "id-" + u.Username
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Unix(int64(1700000000+f.seq), 0).UTC()
	}
	u.UpdatedAt = u.CreatedAt
}

func (f *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (f *Users) Create(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return nil, f.SaveErr
	}
	if _, ok := f.users[user.Username]; ok {
		return nil, common.ErrorConflict
	}
	u := *user
	u.ID, u.CreatedAt = "", time.Time{}
	f.stamp(&u)
	f.users[u.Username] = u
	return &u, nil
}

func (f *Users) Update(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return nil, f.SaveErr
	}
	old, ok := f.users[user.Username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *user
	u.ID, u.CreatedAt = old.ID, old.CreatedAt
	f.users[u.Username] = u
	return &u, nil
}

func (f *Users) Upsert(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return nil, f.SaveErr
	}
	u := *user
	if old, ok := f.users[u.Username]; ok {
		u.ID, u.CreatedAt = old.ID, old.CreatedAt
	} else {
		u.ID, u.CreatedAt = "", time.Time{}
		f.stamp(&u)
	}
	f.users[u.Username] = u
	return &u, nil
}

func (f *Users) Rename(_ context.Context, oldName, newName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return nil, f.SaveErr
	}
	u, ok := f.users[oldName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if _, taken := f.users[newName]; taken {
		return nil, common.ErrorConflict
	}
	delete(f.users, oldName)
	u.Username = newName
	f.users[newName] = u
	return &u, nil
}

func (f *Users) MarkVerified(_ context.Context, username string) (*models.User, error) {
	return f.modify(username, func(u *models.User) bool {
		if u.Banned {
			return false
		}
		u.Verified = true
		return true
	})
}

func (f *Users) SetAdmin(_ context.Context, username string, isAdmin bool) (*models.User, error) {
	return f.modify(username, func(u *models.User) bool {
		u.IsAdmin = isAdmin
		return true
	})
}

func (f *Users) SetBanned(_ context.Context, username string, banned bool) (*models.User, error) {
	return f.modify(username, func(u *models.User) bool {
		u.Banned = banned
		return true
	})
}

// modify applies fn to the stored record under the lock. fn returning false
// means the row did not match and yields common.ErrorNotFound.
func (f *Users) modify(username string, fn func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return nil, f.SaveErr
	}
	u, ok := f.users[username]
	if !ok || !fn(&u) {
		return nil, common.ErrorNotFound
	}
	f.users[username] = u
	return &u, nil
}

func (f *Users) Delete(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	delete(f.users, username)
	return nil
}

func (f *Users) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Username < out[j].Username
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *Users) RevokeVerification(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RevokeErr != nil {
		return 0, f.RevokeErr
	}
	var n int64
	for name, u := range f.users {
		if u.Verified && !u.IsAdmin {
			u.Verified = false
			f.users[name] = u
			n++
		}
	}
	return n, nil
}

// Settings is a map-backed settings.Repository.
type Settings struct {
	mu     sync.Mutex
	values map[string]string
}

func NewSettings() *Settings {
	return &Settings{values: map[string]string{}}
}

func (f *Settings) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (f *Settings) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

// Manager hands out the same in-memory repositories for any DBTX, so
// transactions are not isolated.
type Manager struct {
	UsersRepo    *Users
	SettingsRepo *Settings
}

func NewManager() *Manager {
	return &Manager{UsersRepo: NewUsers(), SettingsRepo: NewSettings()}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *Manager) Users(dbx.DBTX) users.Repository              { return m.UsersRepo }
func (m *Manager) Settings(dbx.DBTX) settings.Repository        { return m.SettingsRepo }
