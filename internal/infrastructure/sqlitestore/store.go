// Package sqlitestore persists the in-memory store to a SQLite file. The
// full state is written as JSON buckets before each write becomes visible,
// and loaded back when the store is opened.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"wildlife-catalog-backend/internal/infrastructure/memstore"
)

const (
	bucketEcosystems    = "ecosystems"
	bucketSpecies       = "species"
	bucketContributions = "contributions"
)

// Store is a memstore.Store whose writes are snapshotted to SQLite
type Store struct {
	*memstore.Store
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and loads its snapshot
func Open(path string) (*Store, error) {
	if path == "" {
		path = "wildlife.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes snapshot writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &Store{Store: memstore.New(), db: db, path: path}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.SetCommitHook(s.persist)
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshot := memstore.Snapshot{}
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		found = true

		var target interface{}
		switch bucket {
		case bucketEcosystems:
			target = &snapshot.Ecosystems
		case bucketSpecies:
			target = &snapshot.Species
		case bucketContributions:
			target = &snapshot.Contributions
		default:
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if !found {
		return nil
	}
	return s.Import(snapshot)
}

// persist runs as the commit hook, under the store's write lock
func (s *Store) persist(snapshot memstore.Snapshot) (retErr error) {
	buckets := []struct {
		name  string
		value interface{}
	}{
		{bucketEcosystems, snapshot.Ecosystems},
		{bucketSpecies, snapshot.Species},
		{bucketContributions, snapshot.Contributions},
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, b := range buckets {
		data, err := json.Marshal(b.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", b.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, b.name, data); err != nil {
			return fmt.Errorf("upsert %s: %w", b.name, err)
		}
	}

	return tx.Commit()
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string { return s.path }
