package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
	"github.com/cognicore/fxseo/pkg/fxseo/store"
)

// sqliteStore implements store.Store on an embedded SQLite file.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// keyword and calendar tables if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %v: %w", err, internalerr.ErrStoreUnavailable)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS comprehensive_keywords (
	keyword TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	search_intent TEXT NOT NULL,
	difficulty INTEGER NOT NULL,
	estimated_volume INTEGER NOT NULL,
	score INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_keywords_score ON comprehensive_keywords(score DESC);

CREATE TABLE IF NOT EXISTS content_calendar (
	id TEXT PRIMARY KEY,
	publish_date TEXT NOT NULL,
	deadline TEXT NOT NULL,
	pillar TEXT NOT NULL,
	content_type TEXT NOT NULL,
	keyword TEXT NOT NULL,
	category TEXT NOT NULL,
	title TEXT NOT NULL,
	target_word_count INTEGER NOT NULL,
	read_time_minutes INTEGER NOT NULL,
	priority INTEGER NOT NULL,
	status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calendar_publish ON content_calendar(publish_date);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertKeywords writes one batch in a single transaction.
func (s *sqliteStore) UpsertKeywords(ctx context.Context, batch []keyword.Keyword) error {
	for _, k := range batch {
		if err := store.ValidateKeyword(k); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO comprehensive_keywords (keyword, category, search_intent, difficulty, estimated_volume, score, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(keyword) DO UPDATE SET
	category=excluded.category,
	search_intent=excluded.search_intent,
	difficulty=excluded.difficulty,
	estimated_volume=excluded.estimated_volume,
	score=excluded.score,
	updated_at=excluded.updated_at;
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, k := range batch {
		if _, err := stmt.ExecContext(ctx, k.Text, string(k.Category), string(k.Intent), k.Difficulty, k.Volume, k.Score, now); err != nil {
			return fmt.Errorf("upsert %q: %w", k.Text, err)
		}
	}
	return tx.Commit()
}

// GetKeyword retrieves a keyword row by text
func (s *sqliteStore) GetKeyword(ctx context.Context, text string) (keyword.Keyword, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT keyword, category, search_intent, difficulty, estimated_volume, score
FROM comprehensive_keywords WHERE keyword=?`, text)

	k, err := scanKeyword(row)
	if err == sql.ErrNoRows {
		return keyword.Keyword{}, false, nil
	}
	if err != nil {
		return keyword.Keyword{}, false, err
	}
	return k, true, nil
}

// ListKeywords returns rows by score descending, then keyword.
func (s *sqliteStore) ListKeywords(ctx context.Context, limit int) ([]keyword.Keyword, error) {
	query := `
SELECT keyword, category, search_intent, difficulty, estimated_volume, score
FROM comprehensive_keywords
ORDER BY score DESC, keyword ASC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanKeyword(sc scanner) (keyword.Keyword, error) {
	var k keyword.Keyword
	var cat, intent string
	if err := sc.Scan(&k.Text, &cat, &intent, &k.Difficulty, &k.Volume, &k.Score); err != nil {
		return keyword.Keyword{}, err
	}
	k.Category = keyword.Category(cat)
	k.Intent = keyword.Intent(intent)
	return k, nil
}

// UpsertContentItems writes calendar items in a single transaction.
func (s *sqliteStore) UpsertContentItems(ctx context.Context, items []plan.Item) error {
	for _, it := range items {
		if err := store.ValidateItem(it); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO content_calendar (id, publish_date, deadline, pillar, content_type, keyword, category, title,
	target_word_count, read_time_minutes, priority, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	publish_date=excluded.publish_date,
	deadline=excluded.deadline,
	pillar=excluded.pillar,
	content_type=excluded.content_type,
	keyword=excluded.keyword,
	category=excluded.category,
	title=excluded.title,
	target_word_count=excluded.target_word_count,
	read_time_minutes=excluded.read_time_minutes,
	priority=excluded.priority,
	status=excluded.status;
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		_, err := stmt.ExecContext(ctx,
			it.ID,
			it.PublishDate.Format(time.RFC3339),
			it.Deadline.Format(time.RFC3339),
			it.Pillar,
			string(it.ContentType),
			it.Keyword.Text,
			string(it.Keyword.Category),
			it.Title,
			it.TargetWordCount,
			it.ReadTimeMinutes,
			it.Priority,
			string(it.Status),
		)
		if err != nil {
			return fmt.Errorf("upsert item %s: %w", it.ID, err)
		}
	}
	return tx.Commit()
}

// ListContentItems returns the calendar ordered by publish date. Only the
// keyword text and category are stored with each item.
func (s *sqliteStore) ListContentItems(ctx context.Context) ([]plan.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, publish_date, deadline, pillar, content_type, keyword, category, title,
	target_word_count, read_time_minutes, priority, status
FROM content_calendar
ORDER BY publish_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plan.Item
	for rows.Next() {
		var it plan.Item
		var publish, deadline, ct, cat, status string
		if err := rows.Scan(&it.ID, &publish, &deadline, &it.Pillar, &ct, &it.Keyword.Text, &cat, &it.Title,
			&it.TargetWordCount, &it.ReadTimeMinutes, &it.Priority, &status); err != nil {
			return nil, err
		}
		if it.PublishDate, err = time.Parse(time.RFC3339, publish); err != nil {
			return nil, fmt.Errorf("item %s publish_date: %w", it.ID, err)
		}
		if it.Deadline, err = time.Parse(time.RFC3339, deadline); err != nil {
			return nil, fmt.Errorf("item %s deadline: %w", it.ID, err)
		}
		it.ContentType = plan.ContentType(ct)
		it.Keyword.Category = keyword.Category(cat)
		it.Status = plan.Status(status)
		out = append(out, it)
	}
	return out, rows.Err()
}
