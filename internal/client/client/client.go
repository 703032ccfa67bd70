package client

import (
	"context"

	"github.com/dmitrijs2005/chatauth/internal/client/models"
)

// Client is the chat server's user API. Protected calls take the bearer token
// explicitly; the client keeps no session of its own.
type Client interface {
	Register(ctx context.Context, name, email, password string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	GetProfile(ctx context.Context, token string) (*models.UserInfo, error)
	ListUsers(ctx context.Context, token, search string) ([]models.UserInfo, error)
	UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.UserInfo, error)
	Ping(ctx context.Context) error
}
