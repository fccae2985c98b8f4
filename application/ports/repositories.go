package ports

import (
	"context"
	"time"

	"wikiracer/domain/core/entities"
)

// PageRecordStore defines the interface for the persistent page cache.
// Records are write-once per title: there is no update operation.
type PageRecordStore interface {
	// Lookup returns the record for an exact title match, or (nil, nil) on
	// a cache miss. A miss is expected control flow for the search engine,
	// not an error.
	Lookup(ctx context.Context, title string) (*entities.PageRecord, error)

	// Insert durably persists a new record. The write commits before
	// Insert returns, so a retried search observes prior fills. Inserting
	// a title that already exists is a no-op (first write wins).
	Insert(ctx context.Context, record *entities.PageRecord) error

	// AddChild records a descendance edge from parent to child. Adding an
	// existing edge is a no-op. The one-hop engine does not consume this
	// relation; it backs a future two-level search.
	AddChild(ctx context.Context, parentTitle, childTitle string) error

	// DeleteExpired removes records fetched before the cutoff and returns
	// how many were purged. Only invoked when an explicit TTL policy is
	// configured; the store is append-only otherwise.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}

// Cache defines a volatile cache for query results
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// TitleLock is a held per-title lock
type TitleLock interface {
	// Release releases the lock
	Release(ctx context.Context) error
}

// TitleLocker serializes concurrent cache fills for the same title
type TitleLocker interface {
	// Acquire takes the lock for a title, or fails if another owner holds
	// it and the timeout elapses
	Acquire(ctx context.Context, title, owner string, ttl, timeout time.Duration) (TitleLock, error)
}
