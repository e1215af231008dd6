package settings

import "context"

// Repository is a small key/value store for server-wide settings.
type Repository interface {
	// Get returns common.ErrorNotFound when the key has never been set.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
