package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DaanHessen/cramweek/internal/engine"
)

const defaultSaveTimeout = 5 * time.Second

// Autosaver writes every committed state to one slot on a background goroutine.
// Only the newest unsaved snapshot is kept; failures are logged and never reach
// the game.
type Autosaver struct {
	Store   SlotStore
	Slot    string
	Timeout time.Duration
	Logger  *slog.Logger

	startOnce sync.Once
	mu        sync.Mutex
	closed    bool
	pending   chan engine.GameState
	done      chan struct{}
	archived  bool
}

// Hook returns a function suitable for engine.Game.OnChange.
func (a *Autosaver) Hook() func(engine.GameState) {
	a.start()
	return a.enqueue
}

func (a *Autosaver) start() {
	a.startOnce.Do(func() {
		if a.Timeout <= 0 {
			a.Timeout = defaultSaveTimeout
		}
		if a.Logger == nil {
			a.Logger = slog.Default()
		}
		a.pending = make(chan engine.GameState, 1)
		a.done = make(chan struct{})
		go a.loop()
	})
}

func (a *Autosaver) enqueue(s engine.GameState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	for {
		select {
		case a.pending <- s:
			return
		default:
			// drop the stale snapshot
			select {
			case <-a.pending:
			default:
			}
		}
	}
}

func (a *Autosaver) loop() {
	defer close(a.done)
	for s := range a.pending {
		a.save(s)
	}
}

func (a *Autosaver) save(s engine.GameState) {
	ctx, cancel := context.WithTimeout(context.Background(), a.Timeout)
	defer cancel()
	start := time.Now()
	if err := a.Store.Save(ctx, a.Slot, s); err != nil {
		a.Logger.Error("autosave failed", "slot", a.Slot, "day", s.Day, "err", err)
		return
	}
	a.Logger.Debug("autosaved", "slot", a.Slot, "day", s.Day, "slot_time", s.TimeSlot, "took", time.Since(start))

	if !s.Status.Terminal() {
		a.archived = false
		return
	}
	arc, ok := a.Store.(ResultArchive)
	if !ok || a.archived {
		return
	}
	if err := arc.Archive(ctx, a.Slot, s); err != nil {
		a.Logger.Error("archive failed", "slot", a.Slot, "status", s.Status, "err", err)
		return
	}
	a.archived = true
	a.Logger.Info("run archived", "slot", a.Slot, "status", s.Status)
}

// Close flushes the last snapshot and stops the worker.
func (a *Autosaver) Close() {
	a.start()
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.pending)
	}
	a.mu.Unlock()
	<-a.done
}
