package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/chatauth/internal/common"
	"github.com/dmitrijs2005/chatauth/internal/dbx"
	"github.com/dmitrijs2005/chatauth/internal/logging"
	"github.com/dmitrijs2005/chatauth/internal/server/auth"
	"github.com/dmitrijs2005/chatauth/internal/server/config"
	"github.com/dmitrijs2005/chatauth/internal/server/models"
	usersrepo "github.com/dmitrijs2005/chatauth/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// fakeUsersRepo is an in-memory users.Repository.
type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	nextID int

	getErr    error
	updateErr error
	searchErr error
	calls     []string
}

var _ usersrepo.Repository = (*fakeUsersRepo)(nil)

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Create")
	for _, e := range f.byID {
		if strings.EqualFold(e.Email, u.Email) {
			return nil, common.ErrEmailTaken
		}
	}
	f.nextID++
	c := *u
	c.ID = fmt.Sprintf("u-%d", f.nextID)
	c.CreatedAt = time.Now()
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByEmail")
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, e := range f.byID {
		if strings.EqualFold(e.Email, email) {
			c := *e
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByID")
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *e
	return &c, nil
}

func (f *fakeUsersRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	u, err := f.GetByID(ctx, id)
	f.calls[len(f.calls)-1] = "GetByIDForUpdate"
	return u, err
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Update")
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return common.ErrorNotFound
	}
	for id, e := range f.byID {
		if id != u.ID && strings.EqualFold(e.Email, u.Email) {
			return common.ErrEmailTaken
		}
	}
	c := *u
	f.byID[u.ID] = &c
	return nil
}

func (f *fakeUsersRepo) Search(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Search")
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	kw := strings.ToLower(filter.Search)
	out := make([]models.User, 0)
	for id, e := range f.byID {
		if id == filter.ExcludeID {
			continue
		}
		if kw == "" || strings.Contains(strings.ToLower(e.Name), kw) || strings.Contains(strings.ToLower(e.Email), kw) {
			c := *e
			c.PasswordHash = ""
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeUsersRepo) get(id string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.byID[id]
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }

// fakeImageStore keeps objects in memory; refs look like mem://<key>.
type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
	delErr  error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: map[string][]byte{}}
}

func (f *fakeImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	ref := "mem://" + key
	f.objects[ref] = data
	return ref, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, ref)
	return nil
}

func (f *fakeImageStore) Owns(ref string) bool {
	return strings.HasPrefix(ref, "mem://")
}

func (f *fakeImageStore) Key(ref string) (string, bool) {
	if !f.Owns(ref) {
		return "", false
	}
	return strings.TrimPrefix(ref, "mem://"), true
}

func (f *fakeImageStore) has(ref string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[ref]
	return ok
}

type fixture struct {
	svc   *UserService
	repo  *fakeUsersRepo
	store *fakeImageStore
	mock  sqlmock.Sqlmock
	cfg   *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock := newSQLMockDB(t)

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		MaxImageSize:                1024,
	}
	repo := newFakeUsersRepo()
	store := newFakeImageStore()

	return &fixture{
		svc:   NewUserService(db, &fakeRepoManager{u: repo}, store, hasher, logging.Nop(), cfg),
		repo:  repo,
		store: store,
		mock:  mock,
		cfg:   cfg,
	}
}

func (fx *fixture) register(t *testing.T, name, email, password string) *models.AuthResult {
	t.Helper()
	res, err := fx.svc.Register(context.Background(), models.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

