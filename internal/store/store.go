package store

import (
	"context"
	"database/sql"
	"encoding/json"
	errs "errors"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DaanHessen/cramweek/internal/engine"
)

var (
	ErrNoChange     = errs.New("no change")
	ErrSlotNotFound = errs.New("save slot not found")
	ErrMissingDSN   = errs.New("missing DSN")
)

// SlotInfo describes a stored slot without decoding its state.
type SlotInfo struct {
	Slot    string
	Day     int
	Status  engine.GameStatus
	SavedAt time.Time
}

// SlotStore persists game states under user chosen slot names.
type SlotStore interface {
	Save(ctx context.Context, slot string, s engine.GameState) error
	Load(ctx context.Context, slot string) (*engine.GameState, error)
	List(ctx context.Context) ([]SlotInfo, error)
	Close() error
}

// RunResult is an archived ending.
type RunResult struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slot       string    `gorm:"not null"`
	Status     string    `gorm:"not null"`
	FinalScore float64   `gorm:"not null"`
	Rank       string    `gorm:"not null"`
	Result     []byte    `gorm:"type:jsonb;not null"`
	FinishedAt time.Time `gorm:"not null"`
}

func (RunResult) TableName() string { return "run_results" }

// ResultArchive keeps finished runs for the history view.
type ResultArchive interface {
	Archive(ctx context.Context, slot string, s engine.GameState) error
	Results(ctx context.Context, limit int) ([]RunResult, error)
}

// newRunResult summarizes a terminal state. Runs that died before the exam score 0
// and rank F.
func newRunResult(slot string, s engine.GameState, now time.Time) (RunResult, error) {
	r := RunResult{ID: uuid.New(), Slot: slot, Status: string(s.Status), Rank: "F", FinishedAt: now.UTC()}
	var payload any = map[string]any{"day": s.Day, "turn": s.TurnCount}
	if s.ExamResult != nil {
		r.FinalScore = s.ExamResult.FinalScore
		r.Rank = s.ExamResult.Rank
		payload = s.ExamResult
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return RunResult{}, errors.Wrap(err, "encode result")
	}
	r.Result = b
	return r, nil
}

// DB wraps gorm.DB and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error   { return d.sql.Close() }
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// Open connects to Postgres.
func Open(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres handle")
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(4)
	sdb.SetMaxIdleConns(2)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// SaveSlot is one row of save_slots.
type SaveSlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slot      string    `gorm:"uniqueIndex;not null"`
	Day       int       `gorm:"not null"`
	Status    string    `gorm:"not null"`
	Blob      []byte    `gorm:"type:jsonb;not null"`
	SavedAt   time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (SaveSlot) TableName() string { return "save_slots" }

// PostgresStore keeps save slots in Postgres. The schema comes from the embedded
// migrations (see Migrator).
type PostgresStore struct {
	db      *DB
	catalog *engine.Catalog
	now     func() time.Time
}

func NewPostgresStore(db *DB, c *engine.Catalog) *PostgresStore {
	return &PostgresStore{db: db, catalog: c, now: time.Now}
}

func (p *PostgresStore) Save(ctx context.Context, slot string, s engine.GameState) error {
	now := p.now()
	blob, err := EncodeSave(s, now)
	if err != nil {
		return err
	}
	row := SaveSlot{
		ID:      uuid.New(),
		Slot:    slot,
		Day:     s.Day,
		Status:  string(s.Status),
		Blob:    blob,
		SavedAt: now.UTC(),
	}
	return p.db.WithTx(ctx, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"day", "status", "blob", "saved_at"}),
		}).Create(&row).Error
		return wrap(err, "save slot "+slot)
	})
}

func (p *PostgresStore) Load(ctx context.Context, slot string) (*engine.GameState, error) {
	var row SaveSlot
	err := p.db.gorm.WithContext(ctx).Where("slot = ?", slot).First(&row).Error
	if errs.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, wrap(err, "load slot "+slot)
	}
	s, _, err := DecodeSave(row.Blob, p.catalog)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *PostgresStore) List(ctx context.Context) ([]SlotInfo, error) {
	var rows []SaveSlot
	err := p.db.gorm.WithContext(ctx).
		Select("slot", "day", "status", "saved_at").
		Order("saved_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrap(err, "list slots")
	}
	out := make([]SlotInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, SlotInfo{Slot: r.Slot, Day: r.Day, Status: engine.GameStatus(r.Status), SavedAt: r.SavedAt})
	}
	return out, nil
}

func (p *PostgresStore) Archive(ctx context.Context, slot string, s engine.GameState) error {
	row, err := newRunResult(slot, s, p.now())
	if err != nil {
		return err
	}
	return wrap(p.db.gorm.WithContext(ctx).Create(&row).Error, "archive result")
}

func (p *PostgresStore) Results(ctx context.Context, limit int) ([]RunResult, error) {
	var rows []RunResult
	err := p.db.gorm.WithContext(ctx).Order("finished_at DESC").Limit(limit).Find(&rows).Error
	return rows, wrap(err, "list results")
}

func (p *PostgresStore) Close() error { return p.db.Close() }

func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
