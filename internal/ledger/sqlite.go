package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite implements Ledger on a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the ledger database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ledger: create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS downloaded (
		kind          TEXT NOT NULL,
		item_id       TEXT NOT NULL,
		downloaded_at TEXT NOT NULL,
		PRIMARY KEY (kind, item_id)
	);
	CREATE TABLE IF NOT EXISTS manifests (
		item_id  TEXT PRIMARY KEY,
		payload  TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) IsDownloaded(ctx context.Context, kind Kind, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM downloaded WHERE kind = ? AND item_id = ?`, string(kind), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLite) MarkDownloaded(ctx context.Context, kind Kind, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO downloaded (kind, item_id, downloaded_at) VALUES (?, ?, ?)`,
		string(kind), id, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLite) Downloaded(ctx context.Context, kind Kind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id FROM downloaded WHERE kind = ? ORDER BY item_id`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLite) SaveManifest(ctx context.Context, id string, m Manifest) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO manifests (item_id, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		id, string(payload), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLite) Manifest(ctx context.Context, id string) (Manifest, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM manifests WHERE item_id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return Manifest{}, false, nil
	}
	if err != nil {
		return Manifest{}, false, err
	}
	var m Manifest
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return Manifest{}, false, fmt.Errorf("ledger: corrupt manifest for %s: %w", id, err)
	}
	return m, true, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
