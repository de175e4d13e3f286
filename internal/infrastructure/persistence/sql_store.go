package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/younwookim/tankarena/internal/domain/entity"
)

// dialect covers the differences between the supported drivers
type dialect struct {
	blob        string
	placeholder func(n int) string
	pragmas     []string
}

var dialects = map[string]dialect{
	"sqlite": {
		blob:        "BLOB",
		placeholder: func(int) string { return "?" },
		pragmas: []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
		},
	},
	"postgres": {
		blob:        "BYTEA",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	},
}

// SQLStore keeps saves in a single table of a database/sql database
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	codec   Codec
}

// OpenSQLStore connects with driver "sqlite" or "postgres" and creates the
// saves table if missing
func OpenSQLStore(ctx context.Context, driver, dsn string, codec Codec) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported save driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLStore{db: db, dialect: d, codec: codec}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	for _, pragma := range s.dialect.pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		level TEXT NOT NULL,
		tick BIGINT NOT NULL,
		score BIGINT NOT NULL,
		codec TEXT NOT NULL,
		data ` + s.dialect.blob + ` NOT NULL,
		saved_at BIGINT NOT NULL
	)`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// query rewrites ? placeholders for the dialect
func (s *SQLStore) query(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString(s.dialect.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save inserts ss under a fresh id
func (s *SQLStore) Save(ctx context.Context, ss *entity.SaveState) (Meta, error) {
	data, err := s.codec.Marshal(ss)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to encode save: %w", err)
	}
	meta := newMeta(uuid.NewString(), ss, time.Now())

	_, err = s.db.ExecContext(ctx,
		s.query(`INSERT INTO saves (id, level, tick, score, codec, data, saved_at) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		meta.ID, meta.Level, int64(meta.Tick), meta.Score, s.codec.Name(), data, meta.SavedAt.UnixNano())
	if err != nil {
		return Meta{}, fmt.Errorf("failed to save: %w", err)
	}
	return meta, nil
}

// Load decodes the save with the given id using the codec it was written with
func (s *SQLStore) Load(ctx context.Context, id string) (*entity.SaveState, error) {
	var name string
	var data []byte
	err := s.db.QueryRowContext(ctx, s.query(`SELECT codec, data FROM saves WHERE id = ?`), id).Scan(&name, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load save: %w", err)
	}

	codec, err := CodecByName(name)
	if err != nil {
		return nil, err
	}
	var ss entity.SaveState
	if err := codec.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("failed to decode save %s: %w", id, err)
	}
	return &ss, nil
}

// List returns the stored save metadata, newest first
func (s *SQLStore) List(ctx context.Context) ([]Meta, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, level, tick, score, saved_at FROM saves ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var tick, savedAt int64
		if err := rows.Scan(&m.ID, &m.Level, &tick, &m.Score, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save: %w", err)
		}
		m.Tick = uint64(tick)
		m.SavedAt = time.Unix(0, savedAt)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Delete removes a save. Deleting a missing id returns ErrNotFound.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.query(`DELETE FROM saves WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}
