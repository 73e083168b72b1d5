package cloud

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zeronotes/sharenote/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS shared_notes (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);`

// SQLitePublisher is the self-hosted shared-copy store: one row per
// public note, keyed by slug.
type SQLitePublisher struct {
	db *sql.DB
}

func NewSQLitePublisher(path string) (*SQLitePublisher, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening shared notes database: %v", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("error initializing shared notes schema: %v", err)
	}
	return &SQLitePublisher{db: db}, nil
}

func (p *SQLitePublisher) Publish(ctx context.Context, title, content, existingSlug string) (string, error) {
	slug := existingSlug
	if slug == "" {
		slug = NewSlug(title)
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO shared_notes (slug, title, content, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET title = excluded.title, content = excluded.content`,
		slug, title, content, models.NowMillis())
	if err != nil {
		return "", fmt.Errorf("error publishing note: %v", err)
	}
	return slug, nil
}

func (p *SQLitePublisher) Fetch(ctx context.Context, slug string) (*SharedCopy, error) {
	copy := &SharedCopy{}
	err := p.db.QueryRowContext(ctx, `
		SELECT slug, title, content, created_at
		FROM shared_notes
		WHERE slug = ?`, slug).
		Scan(&copy.Slug, &copy.Title, &copy.Content, &copy.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching shared note: %v", err)
	}
	return copy, nil
}

func (p *SQLitePublisher) Remove(ctx context.Context, slug string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM shared_notes WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("error removing shared note: %v", err)
	}
	return nil
}

func (p *SQLitePublisher) Close() error {
	return p.db.Close()
}
