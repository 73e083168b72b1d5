package storage

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/zeronotes/sharenote/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStore backs the note collection with PostgreSQL for
// deployments where notes outlive a single machine.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(config DatabaseConfig, logger *zap.Logger) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	store := &PostgresStore{db: db, logger: logger}

	if err := store.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return store, nil
}

func (s *PostgresStore) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	note := &models.Note{}
	var slug sql.NullString
	err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.CreatedAt,
		&note.UpdatedAt,
		&slug,
		&note.Pinned,
	)
	if err != nil {
		return nil, err
	}
	if slug.Valid {
		note.CloudSlug = slug.String
	}
	return note, nil
}

// nullableSlug keeps the "absent, never empty string" invariant in SQL.
func nullableSlug(slug string) sql.NullString {
	return sql.NullString{String: slug, Valid: slug != ""}
}

func (s *PostgresStore) ListNotes() ([]*models.Note, error) {
	rows, err := s.db.Query(`
		SELECT id, title, content, created_at, updated_at, cloud_slug, pinned
		FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("error querying notes: %v", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning note: %v", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (s *PostgresStore) GetNote(id string) (*models.Note, error) {
	row := s.db.QueryRow(`
		SELECT id, title, content, created_at, updated_at, cloud_slug, pinned
		FROM notes
		WHERE id = $1`, id)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying note: %v", err)
	}
	return note, nil
}

func (s *PostgresStore) SaveNote(note *models.Note) (*models.Note, error) {
	now := models.NowMillis()
	saved := note.Clone()

	if saved.ID != "" {
		result, err := s.db.Exec(`
			UPDATE notes
			SET title = $1, content = $2, updated_at = $3, cloud_slug = $4
			WHERE id = $5`,
			saved.Title, saved.Content, now, nullableSlug(saved.CloudSlug), saved.ID)
		if err != nil {
			return nil, fmt.Errorf("error updating note: %v", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("error getting rows affected: %v", err)
		}
		if affected > 0 {
			return s.GetNote(saved.ID)
		}
	}

	if saved.ID == "" {
		saved.ID = newNoteID()
	}
	saved.CreatedAt = now
	saved.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO notes (id, title, content, created_at, updated_at, cloud_slug, pinned)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		saved.ID, saved.Title, saved.Content, saved.CreatedAt, saved.UpdatedAt,
		nullableSlug(saved.CloudSlug), saved.Pinned)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %v", err)
	}
	return saved, nil
}

func (s *PostgresStore) DeleteNote(id string) error {
	if _, err := s.db.Exec(`DELETE FROM notes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting note: %v", err)
	}
	return nil
}

func (s *PostgresStore) IsTitleDuplicate(title, excludingID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM notes
			WHERE LOWER(BTRIM(title)) = $1 AND id <> $2
		)`, models.NormalizeTitle(title), excludingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking title: %v", err)
	}
	return exists, nil
}

func (s *PostgresStore) TogglePin(id string) (*models.Note, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %v", err)
	}
	defer tx.Rollback()

	var pinned bool
	err = tx.QueryRow(`SELECT pinned FROM notes WHERE id = $1 FOR UPDATE`, id).Scan(&pinned)
	if err == sql.ErrNoRows {
		return nil, models.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying note: %v", err)
	}

	if !pinned {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM notes WHERE pinned`).Scan(&count); err != nil {
			return nil, fmt.Errorf("error counting pinned notes: %v", err)
		}
		if count >= models.MaxPinned {
			// Pinning past the cap is a no-op
			return s.GetNote(id)
		}
	}

	if _, err := tx.Exec(`UPDATE notes SET pinned = NOT pinned WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("error toggling pin: %v", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %v", err)
	}
	return s.GetNote(id)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
