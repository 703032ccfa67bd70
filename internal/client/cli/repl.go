package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. *App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Guest(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ListUsers(ctx context.Context, search string) error
	Ping(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// It returns on EOF or "exit"/"quit". Command errors are printed and the
// loop continues.
//
//	Not logged in: help, register, login, guest, ping, exit
//	Logged in:     help, profile, edit, users [search], ping, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "chat %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: profile, edit, users [search], ping, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, guest, ping, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "guest":
			cmdErr = a.Guest(ctx)

		case "profile", "me":
			cmdErr = requireLogin(a, func() error { return a.Profile(ctx) })

		case "edit":
			cmdErr = requireLogin(a, func() error { return a.EditProfile(ctx) })

		case "users":
			cmdErr = requireLogin(a, func() error { return a.ListUsers(ctx, strings.Join(args, " ")) })

		case "ping":
			cmdErr = a.Ping(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "error:", cmdErr)
		}

		if err != nil {
			return
		}
	}
}

var errNotLoggedIn = errors.New("not logged in, use 'login' or 'guest' first")

func requireLogin(a execIface, fn func() error) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return fn()
}
