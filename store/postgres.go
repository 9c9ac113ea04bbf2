package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore owns the connection pool shared by every document kept in
// the documents table.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		DB.Close()
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Migrate creates the documents table if needed.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schemaSQL)
	return err
}

// Document returns the backend for the row with the given name.
func (s *PostgresStore) Document(name string) *PostgresBackend {
	return &PostgresBackend{DB: s.DB, Name: name}
}

// PostgresBackend stores one collection document as a JSONB row.
type PostgresBackend struct {
	DB   *sql.DB
	Name string
}

func (b *PostgresBackend) EnsureExists(ctx context.Context) error {
	_, err := b.DB.ExecContext(ctx,
		`INSERT INTO documents (name, body) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		b.Name, emptyDocument,
	)
	return err
}

func (b *PostgresBackend) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := b.DB.QueryRowContext(ctx, `SELECT body FROM documents WHERE name=$1`, b.Name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %q: %w", b.Name, ErrDocumentMissing)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (b *PostgresBackend) Write(ctx context.Context, doc []byte) error {
	// jsonb parameters must travel as text; lib/pq would send []byte as bytea.
	res, err := b.DB.ExecContext(ctx,
		`UPDATE documents SET body=$2, updated_at=now() WHERE name=$1`,
		b.Name, string(doc),
	)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return fmt.Errorf("document %q: %w", b.Name, ErrDocumentMissing)
	}
	return nil
}
