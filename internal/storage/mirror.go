package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const seededKey = "seeded"

// MirrorStore is a SQLite copy of the document, seeded once from the
// authoritative backend. It behaves exactly like FileStore.
type MirrorStore struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	now    func() time.Time
	logger *slog.Logger
	closed bool
}

// OpenMirror opens (or creates) the mirror at dbPath. On first open it copies
// the contents of seed; a failed seed is logged and the mirror starts empty.
func OpenMirror(dbPath string, seed Backend, opts ...Option) (*MirrorStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("open mirror: empty db path")
	}
	o := buildOptions(opts)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("open mirror: create db dir: %w", err)
	}

	dsn := "file:" + dbPath + "?mode=rwc&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mirror: sql open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open mirror: ping: %w", err)
	}

	if err := migrateMirror(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open mirror: migrate: %w", err)
	}

	m := &MirrorStore{db: db, path: dbPath, now: o.now, logger: o.logger}

	if seed != nil {
		seeded, err := m.isSeeded()
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open mirror: %w", err)
		}
		if !seeded {
			if err := m.Reseed(seed); err != nil {
				m.logger.Warn("mirror seeding failed", "path", dbPath, "error", err)
			}
		}
	}

	return m, nil
}

func migrateMirror(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			seq INTEGER PRIMARY KEY,
			time_start TEXT,
			time_stamp TEXT,
			saved_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS register (
			id INTEGER PRIMARY KEY,
			week TEXT NOT NULL UNIQUE,
			hour TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the location of the mirror database.
func (m *MirrorStore) Path() string {
	return m.path
}

func (m *MirrorStore) isSeeded() (bool, error) {
	var value string
	err := m.db.QueryRow("SELECT value FROM meta WHERE key = ?", seededKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read seed marker: %w", err)
	}
	return true, nil
}

// Reseed replaces the mirror content with the content of seed and marks the
// mirror as seeded.
func (m *MirrorStore) Reseed(seed Backend) error {
	snapshots, err := seed.Snapshots()
	if err != nil {
		return fmt.Errorf("read seed snapshots: %w", err)
	}
	entries, err := seed.Entries()
	if err != nil {
		return fmt.Errorf("read seed register: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	return m.withTx(func(tx *sql.Tx) error {
		if err := replaceAll(tx, Document{Snapshots: snapshots, Register: entries}); err != nil {
			return err
		}
		_, err := tx.Exec(
			"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			seededKey, m.now().Format(time.RFC3339),
		)
		return err
	})
}

func (m *MirrorStore) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func replaceAll(tx *sql.Tx, doc Document) error {
	if _, err := tx.Exec("DELETE FROM snapshots"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM register"); err != nil {
		return err
	}
	for i, s := range doc.Snapshots {
		if err := upsertSnapshot(tx, int64(i), s); err != nil {
			return err
		}
	}
	for _, e := range doc.Register {
		if _, err := tx.Exec("INSERT INTO register (id, week, hour) VALUES (?, ?, ?)", e.ID, e.Week, e.Offset); err != nil {
			return err
		}
	}
	return nil
}

func upsertSnapshot(tx *sql.Tx, seq int64, s Snapshot) error {
	var savedAt *string
	if s.ObservedAt != nil {
		v := s.ObservedAt.Format(time.RFC3339Nano)
		savedAt = &v
	}
	_, err := tx.Exec(
		`INSERT INTO snapshots (seq, time_start, time_stamp, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(seq) DO UPDATE SET
			time_start = excluded.time_start,
			time_stamp = excluded.time_stamp,
			saved_at = excluded.saved_at`,
		seq, s.ConfiguredStart, s.LastObserved, savedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var start, stamp, savedAt sql.NullString
	if err := row.Scan(&start, &stamp, &savedAt); err != nil {
		return Snapshot{}, err
	}

	var s Snapshot
	if start.Valid {
		s.ConfiguredStart = &start.String
	}
	if stamp.Valid {
		s.LastObserved = &stamp.String
	}
	if savedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, savedAt.String)
		if err != nil {
			return Snapshot{}, fmt.Errorf("parse saved_at %q: %w", savedAt.String, err)
		}
		s.ObservedAt = &t
	}
	return s, nil
}

// currentSeq returns the seq of the current snapshot row, or 0 when none exists.
func currentSeq(tx *sql.Tx) (int64, error) {
	var seq int64
	err := tx.QueryRow("SELECT seq FROM snapshots ORDER BY seq LIMIT 1").Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return seq, err
}

func (m *MirrorStore) Snapshot() (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	row := m.db.QueryRow("SELECT time_start, time_stamp, saved_at FROM snapshots ORDER BY seq LIMIT 1")
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return &s, nil
}

func (m *MirrorStore) Snapshots() ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	rows, err := m.db.Query("SELECT time_start, time_stamp, saved_at FROM snapshots ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// mutate runs fn in a transaction under the store lock.
func (m *MirrorStore) mutate(fn func(tx *sql.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	return m.withTx(fn)
}

func (m *MirrorStore) ReplaceSnapshot(s Snapshot) error {
	return m.mutate(func(tx *sql.Tx) error {
		seq, err := currentSeq(tx)
		if err != nil {
			return err
		}
		return upsertSnapshot(tx, seq, s)
	})
}

func (m *MirrorStore) SetConfiguredStart(duration string) error {
	now := m.now()
	return m.mutate(func(tx *sql.Tx) error {
		seq, err := currentSeq(tx)
		if err != nil {
			return err
		}
		return upsertSnapshot(tx, seq, Snapshot{
			ConfiguredStart: optional(duration),
			ObservedAt:      &now,
		})
	})
}

func (m *MirrorStore) SetLastObserved(duration string) error {
	now := m.now()
	return m.mutate(func(tx *sql.Tx) error {
		seq, err := currentSeq(tx)
		if err != nil {
			return err
		}
		var start sql.NullString
		err = tx.QueryRow("SELECT time_start FROM snapshots WHERE seq = ?", seq).Scan(&start)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		s := Snapshot{LastObserved: optional(duration), ObservedAt: &now}
		if start.Valid {
			s.ConfiguredStart = &start.String
		}
		return upsertSnapshot(tx, seq, s)
	})
}

func (m *MirrorStore) Entries() ([]RegisterEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	rows, err := m.db.Query("SELECT id, week, hour FROM register ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list register: %w", err)
	}
	defer rows.Close()

	entries := []RegisterEntry{}
	for rows.Next() {
		var e RegisterEntry
		if err := rows.Scan(&e.ID, &e.Week, &e.Offset); err != nil {
			return nil, fmt.Errorf("list register: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// insertEntry adds a row for week unless one exists and reports whether it did.
func insertEntry(tx *sql.Tx, week, offset string) (RegisterEntry, bool, error) {
	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM register WHERE week = ?", week).Scan(&exists); err != nil {
		return RegisterEntry{}, false, err
	}
	if exists > 0 {
		return RegisterEntry{}, false, nil
	}

	var id int64
	if err := tx.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM register").Scan(&id); err != nil {
		return RegisterEntry{}, false, err
	}
	if _, err := tx.Exec("INSERT INTO register (id, week, hour) VALUES (?, ?, ?)", id, week, offset); err != nil {
		return RegisterEntry{}, false, err
	}
	return RegisterEntry{ID: id, Week: week, Offset: offset}, true, nil
}

func (m *MirrorStore) AppendEntry(week, offset string) (RegisterEntry, bool, error) {
	var added RegisterEntry
	created := false
	err := m.mutate(func(tx *sql.Tx) error {
		var err error
		added, created, err = insertEntry(tx, week, offset)
		return err
	})
	if err != nil {
		return RegisterEntry{}, false, fmt.Errorf("append register entry: %w", err)
	}
	return added, created, nil
}

func (m *MirrorStore) Archive(week, offset string, reset Snapshot) (RegisterEntry, bool, error) {
	var added RegisterEntry
	created := false
	err := m.mutate(func(tx *sql.Tx) error {
		var err error
		added, created, err = insertEntry(tx, week, offset)
		if err != nil || !created {
			return err
		}
		seq, err := currentSeq(tx)
		if err != nil {
			return err
		}
		return upsertSnapshot(tx, seq, reset)
	})
	if err != nil {
		return RegisterEntry{}, false, fmt.Errorf("archive week %s: %w", week, err)
	}
	return added, created, nil
}

func (m *MirrorStore) DeleteEntry(id int64) (bool, error) {
	removed := false
	err := m.mutate(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM register WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		removed = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete register entry: %w", err)
	}
	return removed, nil
}

func (m *MirrorStore) Replace(doc Document) error {
	return m.mutate(func(tx *sql.Tx) error {
		return replaceAll(tx, doc)
	})
}

func (m *MirrorStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.db.Close()
}
