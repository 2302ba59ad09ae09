// Package kv provides the string key-value backends bookmarks persist to.
package kv

import (
	"context"
	"errors"
)

var ErrUnsupportedBackend = errors.New("unsupported kv backend")

// Store is a string key-value store. Get reports found=false for a missing
// key rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
