package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/chatauth/internal/client/client"
	"github.com/dmitrijs2005/chatauth/internal/client/models"
	"github.com/dmitrijs2005/chatauth/internal/client/session"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Profile fetches the signed-in user from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return a.apiFailure(ctx, err)
	}

	u, err := a.api.GetProfile(ctx, token)
	if err != nil {
		return a.apiFailure(ctx, err)
	}
	a.applyUser(ctx, u)

	printUser(a, *u)
	return nil
}

// EditProfile walks through the profile form. Empty answers keep the current
// value; an empty picture path keeps the current picture.
func (a *App) EditProfile(ctx context.Context) error {
	d := a.profile.Draft()

	name, err := GetTextWithDefault(a.reader, "Name", d.Name, a.out)
	if err != nil {
		return err
	}
	email, err := GetTextWithDefault(a.reader, "Email", d.Email, a.out)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Picture file (empty to keep current)", a.out)
	if err != nil {
		return err
	}

	a.profile.SetName(name)
	a.profile.SetEmail(email)

	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return fmt.Errorf("read picture: %w", err)
		}
		preview := a.profile.SelectImage(filepath.Base(path), data)
		a.logger.Debug(ctx, "picture selected", "path", path, "preview", preview)
	}

	u, err := a.profile.Save(ctx)
	if err != nil {
		// the form already reported it
		return nil
	}

	printUser(a, *u)
	return nil
}

func (a *App) ListUsers(ctx context.Context, search string) error {
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return a.apiFailure(ctx, err)
	}

	users, err := a.api.ListUsers(ctx, token, search)
	if err != nil {
		return a.apiFailure(ctx, err)
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s  %s <%s>\n", u.ID, u.Name, u.Email)
	}
	return nil
}

// apiFailure signs the user out when the server no longer accepts the token.
func (a *App) apiFailure(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		a.endSession(ctx)
		return fmt.Errorf("session is no longer valid, please log in again: %w", err)
	}
	if errors.Is(err, session.ErrNoSession) {
		return errNotLoggedIn
	}
	return err
}

func printUser(a *App, u models.UserInfo) {
	fmt.Fprintf(a.out, "ID:    %s\nName:  %s\nEmail: %s\nPic:   %s\n", u.ID, u.Name, u.Email, u.Pic)
}
