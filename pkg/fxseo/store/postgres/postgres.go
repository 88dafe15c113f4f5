// Package postgres persists keywords and the content calendar in Postgres
// (including Supabase-hosted databases) through a pgx connection pool.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
	"github.com/cognicore/fxseo/pkg/fxseo/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a pgxpool connection pool.
type Store struct {
	Pool *pgxpool.Pool
}

// Open creates a connection pool and verifies it with a ping.
func Open(ctx context.Context, connString string) (*Store, error) {
	if connString == "" {
		return nil, fmt.Errorf("postgres: empty connection string: %w", internalerr.ErrInvalidConfig)
	}
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %v: %w", err, internalerr.ErrStoreUnavailable)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %v: %w", err, internalerr.ErrStoreUnavailable)
	}

	return &Store{Pool: pool}, nil
}

// RunMigrations applies all embedded SQL migrations.
func RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.Pool.Close()
	return nil
}

const upsertKeywordSQL = `
	INSERT INTO comprehensive_keywords (keyword, category, search_intent, difficulty, estimated_volume, score, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (keyword) DO UPDATE SET
		category = EXCLUDED.category,
		search_intent = EXCLUDED.search_intent,
		difficulty = EXCLUDED.difficulty,
		estimated_volume = EXCLUDED.estimated_volume,
		score = EXCLUDED.score,
		updated_at = NOW()
`

// UpsertKeywords sends one batch in a transaction so a failing row rejects
// the whole batch.
func (s *Store) UpsertKeywords(ctx context.Context, batch []keyword.Keyword) error {
	for _, k := range batch {
		if err := store.ValidateKeyword(k); err != nil {
			return err
		}
	}

	b := &pgx.Batch{}
	for _, k := range batch {
		b.Queue(upsertKeywordSQL, k.Text, string(k.Category), string(k.Intent), k.Difficulty, k.Volume, k.Score)
	}
	return s.sendBatch(ctx, b)
}

func (s *Store) sendBatch(ctx context.Context, b *pgx.Batch) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetKeyword retrieves a keyword by text.
func (s *Store) GetKeyword(ctx context.Context, text string) (keyword.Keyword, bool, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT keyword, category, search_intent, difficulty, estimated_volume, score
		FROM comprehensive_keywords WHERE keyword = $1
	`, text)

	k, err := scanKeyword(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return keyword.Keyword{}, false, nil
	}
	if err != nil {
		return keyword.Keyword{}, false, err
	}
	return k, true, nil
}

// ListKeywords returns rows by score descending, then keyword.
func (s *Store) ListKeywords(ctx context.Context, limit int) ([]keyword.Keyword, error) {
	query := `
		SELECT keyword, category, search_intent, difficulty, estimated_volume, score
		FROM comprehensive_keywords
		ORDER BY score DESC, keyword ASC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []keyword.Keyword
	for rows.Next() {
		k, err := scanKeyword(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func scanKeyword(row pgx.Row) (keyword.Keyword, error) {
	var k keyword.Keyword
	var cat, intent string
	if err := row.Scan(&k.Text, &cat, &intent, &k.Difficulty, &k.Volume, &k.Score); err != nil {
		return keyword.Keyword{}, err
	}
	k.Category = keyword.Category(cat)
	k.Intent = keyword.Intent(intent)
	return k, nil
}

const upsertItemSQL = `
	INSERT INTO content_calendar (id, publish_date, deadline, pillar, content_type, keyword, category, title,
		target_word_count, read_time_minutes, priority, status, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	ON CONFLICT (id) DO UPDATE SET
		publish_date = EXCLUDED.publish_date,
		deadline = EXCLUDED.deadline,
		pillar = EXCLUDED.pillar,
		content_type = EXCLUDED.content_type,
		keyword = EXCLUDED.keyword,
		category = EXCLUDED.category,
		title = EXCLUDED.title,
		target_word_count = EXCLUDED.target_word_count,
		read_time_minutes = EXCLUDED.read_time_minutes,
		priority = EXCLUDED.priority,
		status = EXCLUDED.status,
		updated_at = NOW()
`

// UpsertContentItems writes calendar items in one transaction.
func (s *Store) UpsertContentItems(ctx context.Context, items []plan.Item) error {
	for _, it := range items {
		if err := store.ValidateItem(it); err != nil {
			return err
		}
	}

	b := &pgx.Batch{}
	for _, it := range items {
		b.Queue(upsertItemSQL,
			it.ID, it.PublishDate, it.Deadline, it.Pillar, string(it.ContentType),
			it.Keyword.Text, string(it.Keyword.Category), it.Title,
			it.TargetWordCount, it.ReadTimeMinutes, it.Priority, string(it.Status))
	}
	return s.sendBatch(ctx, b)
}

// ListContentItems returns the calendar ordered by publish date.
func (s *Store) ListContentItems(ctx context.Context) ([]plan.Item, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, publish_date, deadline, pillar, content_type, keyword, category, title,
			target_word_count, read_time_minutes, priority, status
		FROM content_calendar
		ORDER BY publish_date ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plan.Item
	for rows.Next() {
		var it plan.Item
		var ct, cat, status string
		if err := rows.Scan(&it.ID, &it.PublishDate, &it.Deadline, &it.Pillar, &ct, &it.Keyword.Text, &cat, &it.Title,
			&it.TargetWordCount, &it.ReadTimeMinutes, &it.Priority, &status); err != nil {
			return nil, err
		}
		it.ContentType = plan.ContentType(ct)
		it.Keyword.Category = keyword.Category(cat)
		it.Status = plan.Status(status)
		out = append(out, it)
	}
	return out, rows.Err()
}

var _ store.Store = (*Store)(nil)
