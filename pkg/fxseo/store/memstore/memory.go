package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
	"github.com/cognicore/fxseo/pkg/fxseo/store"
)

// Store is an in-memory implementation of store.Store for tests and dry runs.
type Store struct {
	mu       sync.RWMutex
	keywords map[string]keyword.Keyword
	items    map[string]plan.Item

	// FailOn makes UpsertKeywords fail for any batch containing this keyword.
	FailOn string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		keywords: make(map[string]keyword.Keyword),
		items:    make(map[string]plan.Item),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertKeywords inserts or replaces keywords keyed by text. The batch is
// applied atomically: an invalid row leaves the store unchanged.
func (s *Store) UpsertKeywords(ctx context.Context, batch []keyword.Keyword) error {
	for _, k := range batch {
		if err := store.ValidateKeyword(k); err != nil {
			return err
		}
		if s.FailOn != "" && k.Text == s.FailOn {
			return errInjected
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range batch {
		s.keywords[k.Text] = k
	}
	return nil
}

// GetKeyword returns a keyword by text.
func (s *Store) GetKeyword(ctx context.Context, text string) (keyword.Keyword, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, ok := s.keywords[text]
	return k, ok, nil
}

// ListKeywords returns keywords by score descending, then text. A
// non-positive limit returns all rows.
func (s *Store) ListKeywords(ctx context.Context, limit int) ([]keyword.Keyword, error) {
	s.mu.RLock()
	out := make([]keyword.Keyword, 0, len(s.keywords))
	for _, k := range s.keywords {
		out = append(out, k)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpsertContentItems inserts or replaces calendar items keyed by ID.
func (s *Store) UpsertContentItems(ctx context.Context, items []plan.Item) error {
	for _, it := range items {
		if err := store.ValidateItem(it); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.ID] = it
	}
	return nil
}

// ListContentItems returns calendar items ordered by publish date, then ID.
func (s *Store) ListContentItems(ctx context.Context) ([]plan.Item, error) {
	s.mu.RLock()
	out := make([]plan.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishDate.Equal(out[j].PublishDate) {
			return out[i].PublishDate.Before(out[j].PublishDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var errInjected = fmt.Errorf("memstore: injected failure: %w", internalerr.ErrStoreUnavailable)

var _ store.Store = (*Store)(nil)
