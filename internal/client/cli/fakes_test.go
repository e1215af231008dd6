package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophgate/internal/client/config"
	"github.com/dmitrijs2005/gophgate/internal/rpc"
)

type fakeClient struct {
	calls []string

	token    string
	users    map[string]rpc.User
	passcode string
	revoked  int64

	lastPassword string
	lastPasscode string

	err    error
	closed bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{users: map[string]rpc.User{}, passcode: "P"}
}

func (f *fakeClient) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeClient) user(name string) *rpc.User {
	u, ok := f.users[name]
	if !ok {
		u = rpc.User{Username: name}
	}
	return &u
}

func (f *fakeClient) Ping(context.Context) error { return f.record("ping") }

func (f *fakeClient) Register(_ context.Context, username, password string) (*rpc.User, error) {
	f.lastPassword = password
	if err := f.record("register " + username); err != nil {
		return nil, err
	}
	f.users[username] = rpc.User{Username: username}
	return f.user(username), nil
}

func (f *fakeClient) Login(_ context.Context, username, password string) (*rpc.LoginResponse, error) {
	f.lastPassword = password
	if err := f.record("login " + username); err != nil {
		return nil, err
	}
	f.token = "tok-" + username
	return &rpc.LoginResponse{AccessToken: f.token, TokenType: "bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeClient) Logout() {
	f.calls = append(f.calls, "logout")
	f.token = ""
}

func (f *fakeClient) LoggedIn() bool { return f.token != "" }

func (f *fakeClient) Verify(_ context.Context, username, password, passcode string) (*rpc.User, error) {
	f.lastPassword, f.lastPasscode = password, passcode
	if err := f.record("verify " + username); err != nil {
		return nil, err
	}
	u := f.user(username)
	u.Verified = true
	return u, nil
}

func (f *fakeClient) Me(context.Context) (*rpc.User, error) {
	if err := f.record("me"); err != nil {
		return nil, err
	}
	return f.user(strings.TrimPrefix(f.token, "tok-")), nil
}

func (f *fakeClient) DeleteMe(context.Context) error {
	if err := f.record("delete-me"); err != nil {
		return err
	}
	f.token = ""
	return nil
}

func (f *fakeClient) GetUser(_ context.Context, username string) (*rpc.User, error) {
	if err := f.record("user " + username); err != nil {
		return nil, err
	}
	return f.user(username), nil
}

func (f *fakeClient) ListUsers(context.Context) ([]rpc.User, error) {
	if err := f.record("users"); err != nil {
		return nil, err
	}
	out := make([]rpc.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeClient) SetAdmin(_ context.Context, username string, isAdmin bool) (*rpc.User, error) {
	if err := f.record("set-admin " + username + " " + onOff(isAdmin)); err != nil {
		return nil, err
	}
	u := f.user(username)
	u.IsAdmin = isAdmin
	return u, nil
}

func (f *fakeClient) SetBanned(_ context.Context, username string, banned bool) (*rpc.User, error) {
	if err := f.record("ban " + username + " " + onOff(banned)); err != nil {
		return nil, err
	}
	u := f.user(username)
	u.Banned = banned
	return u, nil
}

func (f *fakeClient) RenameUser(_ context.Context, username, newUsername string) (*rpc.User, error) {
	if err := f.record("rename " + username + " " + newUsername); err != nil {
		return nil, err
	}
	return f.user(newUsername), nil
}

func (f *fakeClient) DeleteUser(_ context.Context, username string) error {
	return f.record("delete " + username)
}

func (f *fakeClient) GetPasscode(context.Context) (string, error) {
	if err := f.record("passcode"); err != nil {
		return "", err
	}
	return f.passcode, nil
}

func (f *fakeClient) RotatePasscode(_ context.Context, passcode string) (int64, error) {
	f.lastPasscode = passcode
	if err := f.record("rotate"); err != nil {
		return 0, err
	}
	f.passcode = passcode
	return f.revoked, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// newTestApp builds an App reading the given script and writing to a buffer.
func newTestApp(t *testing.T, f *fakeClient, script string) (*App, *bytes.Buffer) {
	t.Helper()

	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("secret-pw"), nil }
	t.Cleanup(func() { readPassword = orig })

	out := &bytes.Buffer{}
	return &App{
		config: &config.Config{RequestTimeout: time.Second},
		client: f,
		reader: bufio.NewReader(strings.NewReader(script)),
		out:    out,
	}, out
}
