package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const helpLoggedOut = "Available commands: register, login, verify, ping, help, exit"

const helpLoggedIn = `Available commands:
  me                      show your account
  delete-me               delete your account
  verify                  become verified with the shared passcode
  logout                  forget the access token
  users                   list users (admin)
  user <name>             show a user (admin)
  set-admin <name> on|off grant or revoke admin (admin)
  ban <name> / unban <name>
  rename <old> <new>      rename a user (admin)
  delete <name>           delete a user (admin)
  passcode                show the shared passcode (admin)
  rotate [code]           set a new passcode, random when omitted (admin)
  ping, help, exit`

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userName)
}

// Root greets the user and runs the REPL until EOF or "exit".
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to GophGate CLI (type 'help' for commands)")
	a.runREPL(ctx)
}

func (a *App) runREPL(ctx context.Context) {
	for {
		fmt.Fprintf(a.out, "gg %s> ", a.getStatus())

		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return
		}
		eof := err != nil

		parts := strings.Fields(line)
		if len(parts) > 0 {
			if quit := a.exec(ctx, parts[0], parts[1:]); quit {
				return
			}
		}
		if eof {
			return
		}
	}
}

// exec runs one command and reports whether the REPL should stop. Command
// errors are printed, never returned.
func (a *App) exec(ctx context.Context, cmd string, args []string) bool {
	var err error

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(a.out, helpLoggedIn)
		} else {
			fmt.Fprintln(a.out, helpLoggedOut)
		}
	case "ping":
		err = a.ping(ctx)
	case "register":
		err = a.register(ctx)
	case "login":
		err = a.login(ctx)
	case "logout":
		a.logout()
	case "verify":
		err = a.verify(ctx)
	case "me":
		err = a.me(ctx)
	case "delete-me":
		err = a.deleteMe(ctx)
	case "users":
		err = a.listUsers(ctx)
	case "user":
		err = withArgs(args, 1, "user <name>", func() error { return a.showUser(ctx, args[0]) })
	case "set-admin":
		err = withArgs(args, 2, "set-admin <name> on|off", func() error { return a.setAdmin(ctx, args[0], args[1]) })
	case "ban":
		err = withArgs(args, 1, "ban <name>", func() error { return a.setBanned(ctx, args[0], true) })
	case "unban":
		err = withArgs(args, 1, "unban <name>", func() error { return a.setBanned(ctx, args[0], false) })
	case "rename":
		err = withArgs(args, 2, "rename <old> <new>", func() error { return a.rename(ctx, args[0], args[1]) })
	case "delete":
		err = withArgs(args, 1, "delete <name>", func() error { return a.deleteUser(ctx, args[0]) })
	case "passcode":
		err = a.passcode(ctx)
	case "rotate":
		code := ""
		if len(args) > 0 {
			code = args[0]
		}
		err = a.rotate(ctx, code)
	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return true
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}

	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}
	return false
}

var errUsage = errors.New("usage")

func withArgs(args []string, n int, usage string, fn func() error) error {
	if len(args) < n {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	return fn()
}
