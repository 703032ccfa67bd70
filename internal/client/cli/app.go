package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/chatauth/internal/client/client"
	"github.com/dmitrijs2005/chatauth/internal/client/config"
	"github.com/dmitrijs2005/chatauth/internal/client/forms"
	"github.com/dmitrijs2005/chatauth/internal/client/models"
	"github.com/dmitrijs2005/chatauth/internal/client/session"
	"github.com/dmitrijs2005/chatauth/internal/client/state"
	"github.com/dmitrijs2005/chatauth/internal/logging"
)

type App struct {
	config   *config.Config
	api      client.Client
	sessions session.Store
	state    *state.AppState
	previews *forms.Previews
	login    *forms.LoginForm
	profile  *forms.ProfileForm
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	closeDB  func() error
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api := client.NewHTTPClient(c.ServerEndpointURL, c.RequestTimeout)

	a := newApp(c, api, session.NewSQLStore(db), logger, os.Stdin, os.Stdout)
	a.closeDB = db.Close
	return a, nil
}

func newApp(c *config.Config, api client.Client, sessions session.Store, logger logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config:   c,
		api:      api,
		sessions: sessions,
		state:    state.New(),
		previews: forms.NewPreviews(),
		logger:   logger,
		reader:   bufio.NewReader(in),
		out:      out,
	}

	notifier := consoleNotifier{w: out}
	a.login = forms.NewLoginForm(api, sessions, a.state, notifier, logger)
	a.profile = forms.NewProfileForm(api, sessions, a.state, a.previews, notifier, logger)
	return a
}

func (a *App) Run(ctx context.Context) {
	defer a.close()

	a.restoreSession(ctx)
	fmt.Fprintln(a.out, "Chat client (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) close() {
	a.profile.Close()
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			a.logger.Warn(context.Background(), "closing session database", "error", err)
		}
	}
}

// restoreSession loads the stored session and refreshes the user from the
// server. A rejected token clears the session; an unreachable server keeps
// the cached user.
func (a *App) restoreSession(ctx context.Context) {
	sess, err := a.sessions.Get(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			a.logger.Warn(ctx, "reading stored session", "error", err)
		}
		return
	}

	user := sess.UserInfo
	a.state.SetUser(&user)

	fresh, err := a.api.GetProfile(ctx, sess.Token)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Stored session has expired, please log in again")
		a.endSession(ctx)
	case err != nil:
		a.logger.Warn(ctx, "refreshing profile", "error", err)
	default:
		a.applyUser(ctx, fresh)
	}
}

// endSession signs the user out after the server rejected the token. The
// in-memory user is dropped even when the stored session cannot be cleared.
func (a *App) endSession(ctx context.Context) {
	if err := a.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "clearing session", "error", err)
		a.state.Clear()
	}
}

func (a *App) applyUser(ctx context.Context, u *models.UserInfo) {
	if err := a.sessions.SetUserInfo(ctx, *u); err != nil {
		a.logger.Warn(ctx, "saving user info", "error", err)
	}
	a.state.SetUser(u)
}

func (a *App) isLoggedIn() bool {
	return a.state.User() != nil
}

func (a *App) getStatus() string {
	if u := a.state.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Email)
	}
	return ""
}

type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Notify(notice forms.Notice) {
	if notice.Description != "" {
		fmt.Fprintf(n.w, "[%s] %s: %s\n", notice.Level, notice.Title, notice.Description)
		return
	}
	fmt.Fprintf(n.w, "[%s] %s\n", notice.Level, notice.Title)
}
