package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
)

// DefaultBatchSize is the number of keyword rows written per upsert call.
const DefaultBatchSize = 100

// Store persists scored keywords and the content calendar.
type Store interface {
	Close() error

	// Keywords, keyed by normalized keyword text.
	UpsertKeywords(ctx context.Context, batch []keyword.Keyword) error
	GetKeyword(ctx context.Context, text string) (keyword.Keyword, bool, error)
	ListKeywords(ctx context.Context, limit int) ([]keyword.Keyword, error)

	// Content calendar, keyed by item ID.
	UpsertContentItems(ctx context.Context, items []plan.Item) error
	ListContentItems(ctx context.Context) ([]plan.Item, error)
}

// WriteStats reports the outcome of a batched write.
type WriteStats struct {
	Written       int `json:"written"`
	Failed        int `json:"failed"`
	Batches       int `json:"batches"`
	FailedBatches int `json:"failed_batches"`
}

// WriteKeywords upserts keywords in batches of batchSize. A failing batch is
// logged and skipped; the remaining batches are still attempted. The only
// error returned is ctx cancellation.
func WriteKeywords(ctx context.Context, s Store, keywords []keyword.Keyword, batchSize int, logger *zap.Logger) (WriteStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var stats WriteStats
	for start := 0; start < len(keywords); start += batchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		end := min(start+batchSize, len(keywords))
		batch := keywords[start:end]
		stats.Batches++

		if err := s.UpsertKeywords(ctx, batch); err != nil {
			stats.Failed += len(batch)
			stats.FailedBatches++
			logger.Warn("keyword batch failed",
				zap.Int("offset", start),
				zap.Int("size", len(batch)),
				zap.Error(err))
			continue
		}
		stats.Written += len(batch)
	}

	logger.Info("keywords persisted",
		zap.Int("written", stats.Written),
		zap.Int("failed", stats.Failed),
		zap.Int("batches", stats.Batches))
	return stats, nil
}

// ValidateKeyword rejects rows a store cannot key.
func ValidateKeyword(k keyword.Keyword) error {
	if k.Text == "" {
		return fmt.Errorf("empty keyword: %w", internalerr.ErrInvalidInput)
	}
	return nil
}

// ValidateItem rejects content items without an ID or with an unknown
// status.
func ValidateItem(it plan.Item) error {
	if it.ID == "" {
		return fmt.Errorf("content item without id: %w", internalerr.ErrInvalidInput)
	}
	if !it.Status.Valid() {
		return fmt.Errorf("content item %s: unknown status %q: %w", it.ID, it.Status, internalerr.ErrInvalidInput)
	}
	return nil
}
