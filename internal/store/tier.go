package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
)

// tier is one metadata.Store inside the shared database.
type tier struct {
	db     *sql.DB
	scope  metadata.Scope
	entity int64
	err    error // set when the tier could not be recorded
}

// Values returns the stored list ordered by index.
// Returns an empty slice (not nil) for an unset key.
func (t *tier) Values(key keycodec.Key) ([]string, error) {
	if t.err != nil {
		return nil, t.err
	}
	rows, err := t.db.Query(`
		SELECT value FROM metadata_values
		WHERE scope = ? AND entity_id = ? AND key = ?
		ORDER BY idx ASC
	`, t.scope.String(), t.entity, key[:])
	if err != nil {
		return nil, fmt.Errorf("read %s values: %w", key, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s value: %w", key, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s values: %w", key, err)
	}
	return values, nil
}

func (t *tier) Value(key keycodec.Key) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	var v string
	err := t.db.QueryRow(`
		SELECT value FROM metadata_values
		WHERE scope = ? AND entity_id = ? AND key = ? AND idx = 0
	`, t.scope.String(), t.entity, key[:]).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s value: %w", key, err)
	}
	return v, nil
}

func (t *tier) SetValues(key keycodec.Key, values []string) error {
	return t.write(key, values, false)
}

func (t *tier) SetValue(key keycodec.Key, value string) error {
	return t.SetValues(key, []string{value})
}

func (t *tier) AddValues(key keycodec.Key, values []string) error {
	return t.write(key, values, true)
}

func (t *tier) AddValue(key keycodec.Key, value string) error {
	return t.AddValues(key, []string{value})
}

func (t *tier) KeyCount() (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	var n int
	err := t.db.QueryRow(`
		SELECT key_count FROM metadata_stores WHERE scope = ? AND entity_id = ?
	`, t.scope.String(), t.entity).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read key count: %w", err)
	}
	return n, nil
}

// write replaces the list under key in one transaction. With defineOnce set
// it fails with KEY_EXISTS when the key already holds values.
func (t *tier) write(key keycodec.Key, values []string, defineOnce bool) error {
	if t.err != nil {
		return t.err
	}
	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("write %s: begin tx: %w", key, err)
	}
	defer tx.Rollback() // No-op if committed

	scope := t.scope.String()

	var current int
	err = tx.QueryRow(`
		SELECT value_count FROM metadata_keys
		WHERE scope = ? AND entity_id = ? AND key = ?
	`, scope, t.entity, key[:]).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("write %s: read count: %w", key, err)
	}

	if defineOnce && current > 0 {
		return metadata.NewKeyExistsError(key)
	}

	if _, err := tx.Exec(`
		DELETE FROM metadata_values WHERE scope = ? AND entity_id = ? AND key = ?
	`, scope, t.entity, key[:]); err != nil {
		return fmt.Errorf("write %s: clear values: %w", key, err)
	}

	for i, v := range values {
		if _, err := tx.Exec(`
			INSERT INTO metadata_values (scope, entity_id, key, idx, value)
			VALUES (?, ?, ?, ?, ?)
		`, scope, t.entity, key[:], i, v); err != nil {
			return fmt.Errorf("write %s: insert value %d: %w", key, i, err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO metadata_keys (scope, entity_id, key, value_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, entity_id, key) DO UPDATE SET value_count = excluded.value_count
	`, scope, t.entity, key[:], len(values)); err != nil {
		return fmt.Errorf("write %s: update count: %w", key, err)
	}

	if current == 0 && len(values) > 0 {
		if _, err := tx.Exec(`
			INSERT INTO metadata_stores (scope, entity_id, key_count)
			VALUES (?, ?, 1)
			ON CONFLICT(scope, entity_id) DO UPDATE SET key_count = key_count + 1
		`, scope, t.entity); err != nil {
			return fmt.Errorf("write %s: bump key count: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write %s: commit: %w", key, err)
	}
	return nil
}
