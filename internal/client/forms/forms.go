// Package forms implements the client's login and profile-edit forms: field
// guards, a single in-flight submission per form, and reconciliation of the
// session store and shared state once the server answers.
package forms

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/chatauth/internal/client/client"
	"github.com/dmitrijs2005/chatauth/internal/client/models"
)

var (
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrMissingFields    = errors.New("required fields are empty")
)

type Status int

const (
	Idle Status = iota
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.UserInfo, error)
}

// machine is the Idle -> Submitting -> {Succeeded, Failed} -> Idle cycle.
type machine struct {
	mu     sync.Mutex
	status Status
}

func (m *machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *machine) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != Idle {
		return ErrSubmitInProgress
	}
	m.status = Submitting
	return nil
}

func (m *machine) set(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// finish moves to the terminal status, delivers n and goes back to Idle.
func (m *machine) finish(s Status, notifier Notifier, n Notice) {
	m.set(s)
	notifier.Notify(n)
	m.set(Idle)
}

func failureText(err error) string {
	if msg := client.ServerMessage(err); msg != "" {
		return msg
	}
	return DescGenericFailure
}
