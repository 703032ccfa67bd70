package forms

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/chatauth/internal/client/client"
	"github.com/dmitrijs2005/chatauth/internal/client/models"
	"github.com/dmitrijs2005/chatauth/internal/client/session"
	"github.com/dmitrijs2005/chatauth/internal/client/state"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	mu    sync.Mutex
	calls int
	login func(ctx context.Context, email, password string) (*models.Session, error)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.login(ctx, email, password)
}

func (f *fakeAuth) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeUpdater struct {
	mu     sync.Mutex
	calls  []models.ProfileUpdate
	tokens []string
	update func(ctx context.Context, token string, upd models.ProfileUpdate) (*models.UserInfo, error)
}

func (f *fakeUpdater) UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.UserInfo, error) {
	f.mu.Lock()
	f.calls = append(f.calls, upd)
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	return f.update(ctx, token, upd)
}

func (f *fakeUpdater) Calls() []models.ProfileUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ProfileUpdate(nil), f.calls...)
}

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recorder) All() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func (r *recorder) Last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func newSessionStore(t *testing.T) *session.SQLStore {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewSQLStore(db)
}

var guestInfo = models.UserInfo{ID: "u1", Name: "Guest User", Email: "user1@example.com", Pic: "https://x/default.jpg"}

func signedIn(t *testing.T) (*session.SQLStore, *state.AppState) {
	t.Helper()
	store := newSessionStore(t)
	require.NoError(t, store.Set(context.Background(), models.Session{Token: "tok-1", UserInfo: guestInfo}))
	app := state.New()
	u := guestInfo
	app.SetUser(&u)
	return store, app
}
