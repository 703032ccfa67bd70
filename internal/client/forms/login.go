package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chatauth/internal/client/models"
	"github.com/dmitrijs2005/chatauth/internal/client/session"
	"github.com/dmitrijs2005/chatauth/internal/client/state"
	"github.com/dmitrijs2005/chatauth/internal/logging"
)

type LoginForm struct {
	machine

	api      Authenticator
	sessions session.Store
	app      *state.AppState
	notifier Notifier
	logger   logging.Logger
}

func NewLoginForm(api Authenticator, sessions session.Store, app *state.AppState, notifier Notifier, logger logging.Logger) *LoginForm {
	return &LoginForm{
		api:      api,
		sessions: sessions,
		app:      app,
		notifier: notifier,
		logger:   logger.With("module", "login_form"),
	}
}

// Submit signs in with email and password. Empty fields never reach the server.
// On success the session is stored before the shared state sees the user.
func (f *LoginForm) Submit(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		f.notifier.Notify(Notice{Level: LevelWarning, Title: TitleFillAllFields})
		return nil, ErrMissingFields
	}

	if err := f.begin(); err != nil {
		return nil, err
	}

	sess, err := f.api.Login(ctx, email, password)
	if err != nil {
		f.logger.Warn(ctx, "login failed", "email", email, "error", err)
		f.finish(Failed, f.notifier, Notice{Level: LevelError, Title: TitleLoginFailed, Description: failureText(err)})
		return nil, err
	}

	if err := f.sessions.Set(ctx, *sess); err != nil {
		f.logger.Error(ctx, "saving session failed", "error", err)
		f.finish(Failed, f.notifier, Notice{Level: LevelError, Title: TitleLoginFailed, Description: DescGenericFailure})
		return nil, fmt.Errorf("save session: %w", err)
	}

	user := sess.UserInfo
	f.app.SetUser(&user)

	f.logger.Info(ctx, "signed in", "user_id", user.ID)
	f.finish(Succeeded, f.notifier, Notice{Level: LevelSuccess, Title: TitleLoginOK})
	return sess, nil
}
