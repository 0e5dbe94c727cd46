package sessionsvc

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("key not found")

// Store is a small key-value store the session is persisted in.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error) // ErrNotFound when missing
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
}
