package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatauth/internal/client/forms"
	"github.com/dmitrijs2005/chatauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register creates an account and signs in with it. The server answers a
// registration with a token, so no separate login is needed.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.api.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}

	if err := a.sessions.Set(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	user := sess.UserInfo
	a.state.SetUser(&user)

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}

// Login prompts for credentials and submits the login form. The form reports
// the outcome itself, so only unexpected errors are returned.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.submitLogin(ctx, email, string(password))
}

// Guest signs in with the demo account.
func (a *App) Guest(ctx context.Context) error {
	return a.submitLogin(ctx, common.GuestEmail, common.GuestPassword)
}

func (a *App) submitLogin(ctx context.Context, email, password string) error {
	_, err := a.login.Submit(ctx, email, password)
	if errors.Is(err, forms.ErrSubmitInProgress) {
		return err
	}
	// other failures were already shown as a notice
	return nil
}

// Logout clears the stored session and the signed-in user.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.state.Clear()
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.api.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is up")
	return nil
}
