// Package state holds the client's shared in-memory application state: the
// signed-in user. Components subscribe to be told when it changes.
package state

import (
	"sync"

	"github.com/dmitrijs2005/chatauth/internal/client/models"
)

type Listener func(u *models.UserInfo)

// AppState is safe for concurrent use. Listeners are called outside the lock,
// in subscription order, with a copy of the new user (nil after sign-out).
type AppState struct {
	mu        sync.RWMutex
	user      *models.UserInfo
	listeners map[int]Listener
	nextID    int
}

func New() *AppState {
	return &AppState{listeners: make(map[int]Listener)}
}

// User returns a copy of the current user, or nil.
func (s *AppState) User() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.user)
}

func (s *AppState) SetUser(u *models.UserInfo) {
	s.mu.Lock()
	s.user = clone(u)
	ls := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range ls {
		l(clone(u))
	}
}

func (s *AppState) Clear() {
	s.SetUser(nil)
}

// Subscribe registers l and returns a function that removes it.
func (s *AppState) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *AppState) snapshotListeners() []Listener {
	ls := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			ls = append(ls, l)
		}
	}
	return ls
}

func clone(u *models.UserInfo) *models.UserInfo {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
