package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	mdwerror "github.com/msto63/tempus/foundation/core/error"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Alarm is a stored alarm. Target is a Unix timestamp in seconds.
type Alarm struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Target    int64      `json:"target"`
	Locale    string     `json:"locale,omitempty"`
	Pattern   string     `json:"pattern,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	FiredAt   *time.Time `json:"fired_at,omitempty"`
}

// Pending reports whether the alarm has not fired yet
func (a *Alarm) Pending() bool {
	return a.FiredAt == nil
}

// ListOptions filters List
type ListOptions struct {
	PendingOnly bool
	Limit       int
}

// Store persists alarms in SQLite
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Config holds store configuration
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/alarms.db",
	}
}

// Open opens or creates the alarm database
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}

	dsn := cfg.Path
	if cfg.Path != MemoryPath {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, mdwerror.Wrap(err, "failed to create data directory").
				WithCode(mdwerror.CodeDatabaseError).
				WithOperation("store.Open").
				WithDetail("dir", dir)
		}
		dsn += "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open database").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("store.Open").
			WithDetail("path", cfg.Path)
	}
	if cfg.Path == MemoryPath {
		// Every connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to initialize schema").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("store.Open")
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alarms (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		target INTEGER NOT NULL,
		locale TEXT NOT NULL DEFAULT '',
		pattern TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		fired_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_alarms_target ON alarms(target);
	CREATE INDEX IF NOT EXISTS idx_alarms_fired ON alarms(fired_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Create stores a new alarm. An empty ID is filled with a new UUID.
func (s *Store) Create(ctx context.Context, alarm *Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alarm.ID == "" {
		alarm.ID = uuid.New().String()
	}
	if alarm.CreatedAt.IsZero() {
		alarm.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alarms (id, label, target, locale, pattern, created_at, fired_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, alarm.ID, alarm.Label, alarm.Target, alarm.Locale, alarm.Pattern,
		alarm.CreatedAt.UnixNano(), nullableTime(alarm.FiredAt))
	if err != nil {
		code := mdwerror.CodeDatabaseError
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			code = mdwerror.CodeDuplicateEntry
		}
		return mdwerror.Wrap(err, "failed to create alarm").
			WithCode(code).
			WithOperation("store.Create").
			WithDetail("id", alarm.ID)
	}
	return nil
}

// Get retrieves an alarm by ID
func (s *Store) Get(ctx context.Context, id string) (*Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, target, locale, pattern, created_at, fired_at
		FROM alarms WHERE id = ?
	`, id)

	alarm, err := scanAlarm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mdwerror.New("alarm not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("store.Get").
			WithDetail("id", id)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read alarm").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("store.Get").
			WithDetail("id", id)
	}
	return alarm, nil
}

// List returns alarms ordered by target time
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, label, target, locale, pattern, created_at, fired_at FROM alarms`
	if opts.PendingOnly {
		query += ` WHERE fired_at IS NULL`
	}
	query += ` ORDER BY target, created_at`
	args := []interface{}{}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to list alarms").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("store.List")
	}
	defer rows.Close()

	var alarms []*Alarm
	for rows.Next() {
		alarm, err := scanAlarm(rows)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to scan alarm").
				WithCode(mdwerror.CodeDatabaseError).
				WithOperation("store.List")
		}
		alarms = append(alarms, alarm)
	}
	if err := rows.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "failed to list alarms").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("store.List")
	}
	return alarms, nil
}

// MarkFired records the time an alarm fired
func (s *Store) MarkFired(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE alarms SET fired_at = ? WHERE id = ?`, at.UnixNano(), id)
	return s.checkAffected(res, err, "store.MarkFired", id)
}

// Delete removes an alarm
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM alarms WHERE id = ?`, id)
	return s.checkAffected(res, err, "store.Delete", id)
}

// Count returns the number of alarms, or of pending alarms only
func (s *Store) Count(ctx context.Context, pendingOnly bool) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT COUNT(*) FROM alarms`
	if pendingOnly {
		query += ` WHERE fired_at IS NULL`
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, mdwerror.Wrap(err, "failed to count alarms").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("store.Count")
	}
	return n, nil
}

// PingContext checks the database connection
func (s *Store) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) checkAffected(res sql.Result, err error, op, id string) error {
	if err != nil {
		return mdwerror.Wrap(err, "failed to update alarm").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation(op).
			WithDetail("id", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mdwerror.Wrap(err, "failed to update alarm").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation(op).
			WithDetail("id", id)
	}
	if n == 0 {
		return mdwerror.New("alarm not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation(op).
			WithDetail("id", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAlarm(row scanner) (*Alarm, error) {
	var (
		alarm   Alarm
		created int64
		fired   sql.NullInt64
	)
	if err := row.Scan(&alarm.ID, &alarm.Label, &alarm.Target, &alarm.Locale, &alarm.Pattern, &created, &fired); err != nil {
		return nil, err
	}
	alarm.CreatedAt = time.Unix(0, created)
	if fired.Valid {
		t := time.Unix(0, fired.Int64)
		alarm.FiredAt = &t
	}
	return &alarm, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixNano()
}
