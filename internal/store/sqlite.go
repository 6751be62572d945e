package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lnkday/page-engine/internal/page"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrSlugTaken surfaces the slug uniqueness constraint enforced at the
	// persistence boundary.
	ErrSlugTaken = errors.New("slug already taken")
)

type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS pages (
    id TEXT PRIMARY KEY,
    slug TEXT UNIQUE NOT NULL,
    team_id TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    blocks TEXT NOT NULL DEFAULT '[]',
    theme TEXT NOT NULL DEFAULT '{}',
    settings TEXT NOT NULL DEFAULT '{}',
    views INTEGER NOT NULL DEFAULT 0,
    unique_views INTEGER NOT NULL DEFAULT 0,
    published_at INTEGER,
    created_at INTEGER NOT NULL DEFAULT (unixepoch()),
    updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_pages_slug ON pages(slug);
CREATE INDEX IF NOT EXISTS idx_pages_status ON pages(status);
CREATE INDEX IF NOT EXISTS idx_pages_team ON pages(team_id);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const pageColumns = `id, slug, team_id, status, blocks, theme, settings, views, unique_views, published_at, created_at, updated_at`

func (s *SQLiteStore) Create(ctx context.Context, p *page.Page) error {
	blocksJSON, themeJSON, settingsJSON, err := encodePage(p)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	p.CreatedAt = time.Unix(now, 0)
	p.UpdatedAt = time.Unix(now, 0)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pages (id, slug, team_id, status, blocks, theme, settings, views, unique_views, published_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.TeamID, string(p.Status), blocksJSON, themeJSON, settingsJSON,
		p.Views, p.UniqueViews, nullableTime(p.PublishedAt), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to insert page: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*page.Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (*page.Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
	return scanPage(row)
}

func (s *SQLiteStore) List(ctx context.Context) ([]*page.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*page.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, p *page.Page) error {
	blocksJSON, themeJSON, settingsJSON, err := encodePage(p)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	result, err := s.db.ExecContext(ctx,
		`UPDATE pages SET slug = ?, team_id = ?, status = ?, blocks = ?, theme = ?, settings = ?, published_at = ?, updated_at = ?
		 WHERE id = ?`,
		p.Slug, p.TeamID, string(p.Status), blocksJSON, themeJSON, settingsJSON,
		nullableTime(p.PublishedAt), now, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to update page: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	p.UpdatedAt = time.Unix(now, 0)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) IncrementViews(ctx context.Context, id string, unique bool) error {
	query := `UPDATE pages SET views = views + 1 WHERE id = ?`
	if unique {
		query = `UPDATE pages SET views = views + 1, unique_views = unique_views + 1 WHERE id = ?`
	}
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// DB returns the underlying database connection for health checks
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func encodePage(p *page.Page) (blocks, theme, settings string, err error) {
	blocksJSON, err := json.Marshal(p.Blocks)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal blocks: %w", err)
	}
	themeJSON, err := json.Marshal(p.Theme)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal theme: %w", err)
	}
	settingsJSON, err := json.Marshal(p.Settings)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal settings: %w", err)
	}
	return string(blocksJSON), string(themeJSON), string(settingsJSON), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*page.Page, error) {
	var p page.Page
	var status, blocksJSON, themeJSON, settingsJSON string
	var publishedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(&p.ID, &p.Slug, &p.TeamID, &status, &blocksJSON, &themeJSON,
		&settingsJSON, &p.Views, &p.UniqueViews, &publishedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}

	p.Status = page.Status(status)
	if err := json.Unmarshal([]byte(blocksJSON), &p.Blocks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blocks: %w", err)
	}
	if err := json.Unmarshal([]byte(themeJSON), &p.Theme); err != nil {
		return nil, fmt.Errorf("failed to unmarshal theme: %w", err)
	}
	if err := json.Unmarshal([]byte(settingsJSON), &p.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if publishedAt.Valid {
		t := time.Unix(publishedAt.Int64, 0)
		p.PublishedAt = &t
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)

	return &p, nil
}

func nullableTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
