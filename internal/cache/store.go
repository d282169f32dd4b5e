// Package cache holds the time-boxed copy of the parsed dataset.
package cache

import (
	"context"

	"github.com/stemsi/attendance-dashboard/internal/model"
)

// Store keeps at most one table. Entries expire after the store's TTL and are
// always invalidated wholesale.
type Store interface {
	// Get returns the cached table and true while it is fresh.
	Get(ctx context.Context) (*model.Table, bool, error)
	Put(ctx context.Context, t *model.Table) error
	Clear(ctx context.Context) error
}
