package users

import (
	"context"

	"github.com/dmitrijs2005/chatauth/internal/server/models"
)

// Repository is the credential store. Lookups that find nothing return
// common.ErrorNotFound; writes that collide on email return common.ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, filter models.UserFilter) ([]models.User, error)
}
