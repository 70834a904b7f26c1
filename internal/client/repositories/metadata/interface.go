// Package metadata is a byte-valued key/value repository over SQLite.
// The same implementation backs both areas of the session store; the
// table name selects the area.
package metadata

import (
	"context"
)

// Repository is a flat key/value store. Get returns (nil, nil) for a
// missing key; Delete and Clear are idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
