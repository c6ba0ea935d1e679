package gen

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// ManifestStore persists the manifest mapping into a local SQLite database,
// so a server-side allowlist can resolve operations by hash without shipping
// the JSON file around. It is an optional sink next to the manifest
// artifact, not a replacement for it.
type ManifestStore struct {
	db *sql.DB
}

// OpenManifestStore opens (or creates) the SQLite database at path and
// ensures the persisted_documents table exists.
func OpenManifestStore(ctx context.Context, path string) (*ManifestStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open manifest store %q: %w", path, err)
	}
	s := NewManifestStore(db)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewManifestStore wraps an existing database handle. The caller remains
// responsible for closing it unless Close is used.
func NewManifestStore(db *sql.DB) *ManifestStore {
	return &ManifestStore{db: db}
}

// Init creates the persisted_documents table if it does not exist.
func (s *ManifestStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS persisted_documents (hash TEXT PRIMARY KEY, document TEXT NOT NULL)`)
	if err != nil {
		return fmt.Errorf("init manifest store: %w", err)
	}
	return nil
}

// Save upserts every manifest entry in one transaction, in insertion order.
func (s *ManifestStore) Save(ctx context.Context, m *Manifest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	for _, hash := range m.Hashes() {
		text, _ := m.Text(hash)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO persisted_documents (hash, document) VALUES (?, ?) ON CONFLICT(hash) DO UPDATE SET document = excluded.document`,
			hash, text,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("save manifest entry %q: %w", hash, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *ManifestStore) Close() error {
	return s.db.Close()
}
