package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/chatauth/internal/client/models"
	"github.com/dmitrijs2005/chatauth/internal/client/session"
	"github.com/dmitrijs2005/chatauth/internal/client/state"
	"github.com/dmitrijs2005/chatauth/internal/logging"
)

// Draft is the unsaved content of the profile form. Preview is either the
// bound user's picture or a handle from Previews for a newly picked file.
type Draft struct {
	Name    string
	Email   string
	Image   *models.ImageFile
	Preview string
}

// ProfileForm edits the signed-in user's profile. It follows the shared state:
// whenever the user changes, the draft is reseeded from it and unsaved edits
// are dropped.
type ProfileForm struct {
	machine

	api      ProfileUpdater
	sessions session.Store
	app      *state.AppState
	previews *Previews
	notifier Notifier
	logger   logging.Logger

	mu          sync.Mutex
	draft       Draft
	unsubscribe func()
}

func NewProfileForm(api ProfileUpdater, sessions session.Store, app *state.AppState, previews *Previews, notifier Notifier, logger logging.Logger) *ProfileForm {
	f := &ProfileForm{
		api:      api,
		sessions: sessions,
		app:      app,
		previews: previews,
		notifier: notifier,
		logger:   logger.With("module", "profile_form"),
	}
	f.reseed(app.User())
	f.unsubscribe = app.Subscribe(f.reseed)
	return f
}

func (f *ProfileForm) reseed(u *models.UserInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.previews.Release(f.draft.Preview)
	f.draft = Draft{}
	if u != nil {
		f.draft = Draft{Name: u.Name, Email: u.Email, Preview: u.Pic}
	}
}

func (f *ProfileForm) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.draft
	if d.Image != nil {
		img := *d.Image
		d.Image = &img
	}
	return d
}

func (f *ProfileForm) SetName(name string) {
	f.mu.Lock()
	f.draft.Name = name
	f.mu.Unlock()
}

func (f *ProfileForm) SetEmail(email string) {
	f.mu.Lock()
	f.draft.Email = email
	f.mu.Unlock()
}

// SelectImage attaches a picked file and returns its preview handle.
// The previous preview, if any, is released.
func (f *ProfileForm) SelectImage(name string, data []byte) string {
	h := f.previews.Create()

	f.mu.Lock()
	f.previews.Release(f.draft.Preview)
	f.draft.Image = &models.ImageFile{Name: name, Data: data}
	f.draft.Preview = h
	f.mu.Unlock()

	return h
}

// Close discards the draft and stops following the shared state.
func (f *ProfileForm) Close() {
	f.unsubscribe()

	f.mu.Lock()
	f.previews.Release(f.draft.Preview)
	f.draft = Draft{}
	f.mu.Unlock()
}

// Save sends the draft. A draft without a picked file is sent as a text-only
// update, which leaves the stored picture alone.
func (f *ProfileForm) Save(ctx context.Context) (*models.UserInfo, error) {
	d := f.Draft()
	name := strings.TrimSpace(d.Name)
	email := strings.TrimSpace(d.Email)

	if name == "" || email == "" {
		f.notifier.Notify(Notice{Level: LevelWarning, Title: TitleMissingFields, Description: DescMissingFields})
		return nil, ErrMissingFields
	}

	if err := f.begin(); err != nil {
		return nil, err
	}

	token, err := f.sessions.Token(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			f.logger.Error(ctx, "reading session failed", "error", err)
		}
		f.finish(Failed, f.notifier, Notice{Level: LevelError, Title: TitleUpdateFailed, Description: DescNoToken})
		return nil, fmt.Errorf("%s: %w", DescNoToken, err)
	}

	upd := models.ProfileUpdate{Name: name, Email: email, Image: d.Image}
	user, err := f.api.UpdateProfile(ctx, token, upd)
	if err != nil {
		f.logger.Warn(ctx, "profile update failed", "error", err)
		f.finish(Failed, f.notifier, Notice{Level: LevelError, Title: TitleUpdateFailed, Description: failureText(err)})
		return nil, err
	}

	if err := f.sessions.SetUserInfo(ctx, *user); err != nil {
		f.logger.Error(ctx, "saving user info failed", "error", err)
		f.finish(Failed, f.notifier, Notice{Level: LevelError, Title: TitleUpdateFailed, Description: DescGenericFailure})
		return nil, fmt.Errorf("save user info: %w", err)
	}

	// reseeds the draft, which also releases the preview handle
	f.app.SetUser(user)
	f.previews.Release(d.Preview)

	f.finish(Succeeded, f.notifier, Notice{Level: LevelSuccess, Title: TitleProfileUpdated})
	return user, nil
}
