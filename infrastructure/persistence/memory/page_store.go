// Package memory provides an in-process PageRecordStore for development and
// tests. The same write-once and idempotency contracts as the DynamoDB
// implementation hold, guarded by a mutex instead of conditional writes.
package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"wikiracer/domain/core/entities"
	"wikiracer/domain/core/valueobjects"
	pkgerrors "wikiracer/pkg/errors"
)

type storedPage struct {
	id        valueobjects.PageID
	title     string
	links     []string
	backlinks []string
	children  []string
	fetchedAt time.Time
}

// PageStore is a mutex-guarded in-memory PageRecordStore
type PageStore struct {
	mu     sync.RWMutex
	pages  map[string]*storedPage
	logger *zap.Logger
}

// NewPageStore creates an empty in-memory store
func NewPageStore(logger *zap.Logger) *PageStore {
	return &PageStore{
		pages:  make(map[string]*storedPage),
		logger: logger,
	}
}

// Lookup returns the record for an exact title match, or (nil, nil) on a miss
func (s *PageStore) Lookup(ctx context.Context, title string) (*entities.PageRecord, error) {
	s.mu.RLock()
	stored, ok := s.pages[title]
	if !ok {
		s.mu.RUnlock()
		return nil, nil
	}
	links := append([]string(nil), stored.links...)
	backlinks := append([]string(nil), stored.backlinks...)
	children := append([]string(nil), stored.children...)
	id := stored.id
	fetchedAt := stored.fetchedAt
	s.mu.RUnlock()

	titleVO, err := valueobjects.NewPageTitle(title)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("stored page record has an invalid title", err)
	}

	return entities.ReconstructPageRecord(id, titleVO, links, backlinks, children, fetchedAt)
}

// Insert stores a new record. The first write for a title wins; duplicates
// are absorbed silently.
func (s *PageStore) Insert(ctx context.Context, record *entities.PageRecord) error {
	key := record.Title().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pages[key]; exists {
		s.logger.Debug("Page record already present, insert absorbed", zap.String("title", key))
		return nil
	}

	s.pages[key] = &storedPage{
		id:        record.ID(),
		title:     key,
		links:     record.Links(),
		backlinks: record.Backlinks(),
		children:  record.Children(),
		fetchedAt: record.FetchedAt(),
	}

	return nil
}

// AddChild records a descendance edge. Re-adding an existing edge or adding
// to an unknown parent is a no-op.
func (s *PageStore) AddChild(ctx context.Context, parentTitle, childTitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.pages[parentTitle]
	if !ok {
		return nil
	}
	for _, c := range stored.children {
		if c == childTitle {
			return nil
		}
	}
	stored.children = append(stored.children, childTitle)

	return nil
}

// DeleteExpired removes records fetched before the cutoff and returns how
// many were purged
func (s *PageStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for title, stored := range s.pages {
		if stored.fetchedAt.Before(cutoff) {
			delete(s.pages, title)
			purged++
		}
	}

	return purged, nil
}

// Len reports how many records the store holds
func (s *PageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}
