package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophgate/internal/common"
)

// credentials prompts for a username and a password.
func (a *App) credentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "-Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

func (a *App) ping(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is up")
	return nil
}

func (a *App) register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.Register(ctx, userName, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s, log in to continue\n", u.Username)
	return nil
}

func (a *App) login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.client.Login(ctx, userName, string(password))
	if err != nil {
		return err
	}
	a.userName = userName
	fmt.Fprintf(a.out, "Login successful, token valid until %s\n", resp.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) logout() {
	a.client.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
}

// verify sends credentials together with the shared passcode. It does not
// need a token.
func (a *App) verify(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	code, err := getSecret(a.out, "Enter passcode: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(code)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.Verify(ctx, userName, string(password), string(code))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now verified\n", u.Username)
	return nil
}

func (a *App) me(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) deleteMe(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "-Delete your account? Type 'yes' to confirm", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.DeleteMe(ctx); err != nil {
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
