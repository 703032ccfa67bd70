// Package session persists the client's session snapshot: the bearer token
// and the cached userInfo, stored under the "token" and "userInfo" metadata keys.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatauth/internal/client/models"
	"github.com/dmitrijs2005/chatauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chatauth/internal/common"
	"github.com/dmitrijs2005/chatauth/internal/dbx"
)

const (
	KeyToken    = "token"
	KeyUserInfo = "userInfo"
)

// ErrNoSession is returned by Get when nothing is stored.
var ErrNoSession = errors.New("no session")

// Store is the only way the client reads or writes its session snapshot.
type Store interface {
	Set(ctx context.Context, s models.Session) error
	Get(ctx context.Context) (*models.Session, error)
	Token(ctx context.Context) (string, error)
	SetUserInfo(ctx context.Context, u models.UserInfo) error
	Clear(ctx context.Context) error
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) repo(tx dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(tx)
}

// Set writes token and userInfo in one transaction.
func (s *SQLStore) Set(ctx context.Context, sess models.Session) error {
	info, err := json.Marshal(sess.UserInfo)
	if err != nil {
		return fmt.Errorf("encode user info: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, KeyToken, []byte(sess.Token)); err != nil {
			return err
		}
		return r.Set(ctx, KeyUserInfo, info)
	})
}

func (s *SQLStore) Get(ctx context.Context) (*models.Session, error) {
	r := s.repo(s.db)

	token, err := r.Get(ctx, KeyToken)
	if err != nil {
		return nil, noSession(err)
	}
	raw, err := r.Get(ctx, KeyUserInfo)
	if err != nil {
		return nil, noSession(err)
	}

	var info models.UserInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &models.Session{Token: string(token), UserInfo: info}, nil
}

// Token returns the stored bearer token or ErrNoSession.
func (s *SQLStore) Token(ctx context.Context) (string, error) {
	token, err := s.repo(s.db).Get(ctx, KeyToken)
	if err != nil {
		return "", noSession(err)
	}
	if len(token) == 0 {
		return "", ErrNoSession
	}
	return string(token), nil
}

// SetUserInfo replaces the cached user and leaves the token alone.
func (s *SQLStore) SetUserInfo(ctx context.Context, u models.UserInfo) error {
	info, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user info: %w", err)
	}
	return s.repo(s.db).Set(ctx, KeyUserInfo, info)
}

func (s *SQLStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, KeyToken, KeyUserInfo)
}

func noSession(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return ErrNoSession
	}
	return err
}
