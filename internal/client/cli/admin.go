package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/rpc"
)

// passcodeBytes is the entropy of a generated passcode.
const passcodeBytes = 8

func flags(u *rpc.User) string {
	s := ""
	if u.IsAdmin {
		s += "admin "
	}
	if u.Verified {
		s += "verified "
	}
	if u.Banned {
		s += "banned "
	}
	if s == "" {
		return "-"
	}
	return s[:len(s)-1]
}

func printUser(w io.Writer, u *rpc.User) {
	fmt.Fprintf(w, "%s (%s) created %s\n", u.Username, flags(u), u.CreatedAt.Local().Format("2006-01-02 15:04"))
}

func (a *App) listUsers(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tFLAGS\tCREATED")
	for i := range users {
		u := &users[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Username, flags(u), u.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *App) showUser(ctx context.Context, name string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.GetUser(ctx, name)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) setAdmin(ctx context.Context, name, value string) error {
	var on bool
	switch value {
	case "on", "true", "yes":
		on = true
	case "off", "false", "no":
	default:
		return fmt.Errorf("%w: set-admin <name> on|off", errUsage)
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.SetAdmin(ctx, name, on)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) setBanned(ctx context.Context, name string, banned bool) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.SetBanned(ctx, name, banned)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) rename(ctx context.Context, oldName, newName string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.RenameUser(ctx, oldName, newName)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	// tokens carry the username, so ours no longer resolves
	if oldName == a.userName {
		a.client.Logout()
		a.userName = ""
		fmt.Fprintln(a.out, "You renamed yourself, log in again")
	}
	return nil
}

func (a *App) deleteUser(ctx context.Context, name string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.DeleteUser(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", name)
	return nil
}

func (a *App) passcode(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	code, err := a.client.GetPasscode(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, code)
	return nil
}

// rotate sets code as the new passcode. An empty code is replaced by a
// random one, which is printed.
func (a *App) rotate(ctx context.Context, code string) error {
	if code == "" {
		generated, err := common.MakeRandHexString(passcodeBytes)
		if err != nil {
			return err
		}
		code = generated
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	revoked, err := a.client.RotatePasscode(ctx, code)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Passcode set to %s, %d verification(s) revoked\n", code, revoked)
	return nil
}
