package store

import (
	"context"
	"database/sql"
	errs "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/DaanHessen/cramweek/internal/engine"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS save_slots (
		id TEXT PRIMARY KEY,
		slot TEXT NOT NULL UNIQUE,
		day INTEGER NOT NULL,
		status TEXT NOT NULL,
		blob TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS run_results (
		id TEXT PRIMARY KEY,
		slot TEXT NOT NULL,
		status TEXT NOT NULL,
		final_score REAL NOT NULL,
		rank TEXT NOT NULL,
		result TEXT NOT NULL,
		finished_at DATETIME NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_run_results_finished ON run_results(finished_at);`,
}

// SQLiteStore keeps save slots in a local file. The schema is created on open.
type SQLiteStore struct {
	db      *sql.DB
	catalog *engine.Catalog
	now     func() time.Time
}

func OpenSQLite(ctx context.Context, path string, c *engine.Catalog) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create save directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// one writer; the autosaver and the UI share the handle
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	for _, q := range sqliteSchema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "create sqlite schema")
		}
	}
	return &SQLiteStore{db: db, catalog: c, now: time.Now}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, slot string, st engine.GameState) error {
	now := s.now()
	blob, err := EncodeSave(st, now)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO save_slots(id, slot, day, status, blob, saved_at) VALUES (?,?,?,?,?,?)
		ON CONFLICT(slot) DO UPDATE SET day=excluded.day, status=excluded.status, blob=excluded.blob, saved_at=excluded.saved_at`,
		uuid.NewString(), slot, st.Day, string(st.Status), string(blob), now.UTC())
	return wrap(err, "save slot "+slot)
}

func (s *SQLiteStore) Load(ctx context.Context, slot string) (*engine.GameState, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM save_slots WHERE slot = ?`, slot).Scan(&blob)
	if errs.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, wrap(err, "load slot "+slot)
	}
	st, _, err := DecodeSave([]byte(blob), s.catalog)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, day, status, saved_at FROM save_slots ORDER BY saved_at DESC`)
	if err != nil {
		return nil, wrap(err, "list slots")
	}
	defer rows.Close()
	var out []SlotInfo
	for rows.Next() {
		var (
			info   SlotInfo
			status string
		)
		if err := rows.Scan(&info.Slot, &info.Day, &status, &info.SavedAt); err != nil {
			return nil, wrap(err, "scan slot")
		}
		info.Status = engine.GameStatus(status)
		out = append(out, info)
	}
	return out, wrap(rows.Err(), "list slots")
}

func (s *SQLiteStore) Archive(ctx context.Context, slot string, st engine.GameState) error {
	r, err := newRunResult(slot, st, s.now())
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO run_results(id, slot, status, final_score, rank, result, finished_at) VALUES (?,?,?,?,?,?,?)`,
		r.ID.String(), r.Slot, r.Status, r.FinalScore, r.Rank, string(r.Result), r.FinishedAt)
	return wrap(err, "archive result")
}

func (s *SQLiteStore) Results(ctx context.Context, limit int) ([]RunResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, slot, status, final_score, rank, result, finished_at FROM run_results ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, wrap(err, "list results")
	}
	defer rows.Close()
	var out []RunResult
	for rows.Next() {
		var (
			r      RunResult
			id     string
			result string
		)
		if err := rows.Scan(&id, &r.Slot, &r.Status, &r.FinalScore, &r.Rank, &result, &r.FinishedAt); err != nil {
			return nil, wrap(err, "scan result")
		}
		r.ID, _ = uuid.Parse(id)
		r.Result = []byte(result)
		out = append(out, r)
	}
	return out, wrap(rows.Err(), "list results")
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
