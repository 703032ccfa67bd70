package metadata

import (
	"context"
)

// Repository is a small key/value table. Get returns common.ErrorNotFound
// for a missing key; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
