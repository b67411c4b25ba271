// Package history persists saved water profiles and analysis results in a
// single SQLite table as JSON payloads.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/water"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// timestampLayout keeps every created_at the same width so that text
// ordering in SQLite matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record kinds written by this module.
const (
	KindProfile  = "profile"
	KindEvaluate = "evaluate"
	KindOptimize = "optimize"
	KindBlend    = "blend"
)

// Record is one saved row.
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Profile decodes the payload of a profile record.
func (r Record) Profile() (water.Profile, error) {
	var p water.Profile
	if r.Kind != KindProfile {
		return p, fmt.Errorf("%w: %s is a %s record", ErrWrongKind, r.ID, r.Kind)
	}
	if err := json.Unmarshal(r.Payload, &p); err != nil {
		return p, fmt.Errorf("decode profile %s: %w", r.ID, err)
	}
	return p, nil
}

// Store is a SQLite-backed record store. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the database at path. An empty path uses
// constants.DefaultHistoryPath.
func Open(path string) (*Store, error) {
	if path == "" {
		path = constants.DefaultHistoryPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS records_kind ON records(kind, created_at)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create records index: %w", err)
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

// SaveProfile stores a named profile.
func (s *Store) SaveProfile(ctx context.Context, name string, p water.Profile) (Record, error) {
	return s.SaveResult(ctx, KindProfile, name, p)
}

// SaveResult stores any JSON-encodable payload under kind and name.
func (s *Store) SaveResult(ctx context.Context, kind, name string, payload any) (Record, error) {
	if kind == "" {
		return Record{}, ErrEmptyKind
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	rec := Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		Name:      name,
		Payload:   data,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO records(id,kind,name,payload,created_at) VALUES(?,?,?,?,?)`,
		rec.ID, rec.Kind, rec.Name, []byte(rec.Payload), rec.CreatedAt.Format(timestampLayout),
	); err != nil {
		return Record{}, fmt.Errorf("insert %s: %w", kind, err)
	}
	return rec, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, name, payload, created_at FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// GetProfile returns the profile saved under id.
func (s *Store) GetProfile(ctx context.Context, id string) (water.Profile, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return water.Profile{}, err
	}
	return rec.Profile()
}

// List returns the newest records of every kind. A limit of zero or less
// uses constants.DefaultHistoryLimit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	return s.list(ctx, "", limit)
}

// ListProfiles returns the newest saved profiles.
func (s *Store) ListProfiles(ctx context.Context, limit int) ([]Record, error) {
	return s.list(ctx, KindProfile, limit)
}

func (s *Store) list(ctx context.Context, kind string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	query := `SELECT id, kind, name, payload, created_at FROM records`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec     Record
		payload []byte
		created string
	)
	if err := row.Scan(&rec.ID, &rec.Kind, &rec.Name, &payload, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan: %w", err)
	}
	// RFC3339Nano parsing also accepts the fixed-width layout.
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at of %s: %w", rec.ID, err)
	}
	rec.Payload = payload
	rec.CreatedAt = t
	return rec, nil
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
