package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/tokenmeta/internal/metadata"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial metadata tables
const currentSchemaVersion = 1

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Store is a metadata.Backend persisted in SQLite.
type Store struct {
	db *sql.DB
}

var _ metadata.Backend = (*Store)(nil)

// Open creates or opens the database at path and applies the schema.
// Use MemoryDSN for a process-lifetime database.
//
// This function is idempotent - safe to call multiple times on one file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: a second one would see a different :memory: database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Contract returns the contract tier.
func (s *Store) Contract() metadata.Store {
	return &tier{db: s.db, scope: metadata.ScopeContract}
}

// Defaults returns the default tier.
func (s *Store) Defaults() metadata.Store {
	return &tier{db: s.db, scope: metadata.ScopeDefault}
}

// Entity returns the tier for id, recording it if it is new. If recording
// fails, every call on the returned tier fails with that error.
func (s *Store) Entity(id metadata.EntityID) metadata.Store {
	t := &tier{db: s.db, scope: metadata.ScopeEntity, entity: entityKey(id)}
	if _, err := s.db.Exec(`
		INSERT OR IGNORE INTO metadata_stores (scope, entity_id, key_count)
		VALUES (?, ?, 0)
	`, t.scope.String(), t.entity); err != nil {
		t.err = fmt.Errorf("record entity %d: %w", id, err)
	}
	return t
}

// LookupEntity returns the tier for id if Entity(id) was called before.
func (s *Store) LookupEntity(id metadata.EntityID) (metadata.Store, bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM metadata_stores WHERE scope = ? AND entity_id = ?
	`, metadata.ScopeEntity.String(), entityKey(id)).Scan(&n)
	if err != nil {
		return nil, false, fmt.Errorf("lookup entity %d: %w", id, err)
	}
	if n == 0 {
		return nil, false, nil
	}
	return &tier{db: s.db, scope: metadata.ScopeEntity, entity: entityKey(id)}, true, nil
}

// entityKey maps an EntityID onto SQLite's signed 64-bit integers.
func entityKey(id metadata.EntityID) int64 {
	return int64(id)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and records the version.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}
