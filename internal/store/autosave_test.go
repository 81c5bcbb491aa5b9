package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/cramweek/internal/engine"
)

type memStore struct {
	mu       sync.Mutex
	saves    map[string]engine.GameState
	writes   int
	archived []engine.GameStatus
	failNext bool
}

func newMemStore() *memStore { return &memStore{saves: map[string]engine.GameState{}} }

func (m *memStore) Save(_ context.Context, slot string, s engine.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errors.New("disk full")
	}
	m.saves[slot] = s
	m.writes++
	return nil
}

func (m *memStore) Load(_ context.Context, slot string) (*engine.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saves[slot]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return &s, nil
}

func (m *memStore) List(context.Context) ([]SlotInfo, error) { return nil, nil }
func (m *memStore) Close() error                            { return nil }

func (m *memStore) Archive(_ context.Context, _ string, s engine.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived = append(m.archived, s.Status)
	return nil
}

func (m *memStore) Results(context.Context, int) ([]RunResult, error) { return nil, nil }

func TestAutosaverKeepsLatest(t *testing.T) {
	ms := newMemStore()
	a := &Autosaver{Store: ms, Slot: "main"}
	hook := a.Hook()
	for day := 1; day <= 50; day++ {
		hook(engine.GameState{Day: day, Status: engine.StatusPlaying})
	}
	a.Close()

	got, err := ms.Load(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Day)
	assert.LessOrEqual(t, ms.writes, 50)

	// hook after close is ignored
	hook(engine.GameState{Day: 99})
	got, _ = ms.Load(context.Background(), "main")
	assert.Equal(t, 50, got.Day)
}

func TestAutosaverArchivesOnce(t *testing.T) {
	ms := newMemStore()
	a := &Autosaver{Store: ms, Slot: "main"}
	hook := a.Hook()
	hook(engine.GameState{Day: 8, Status: engine.StatusVictory})
	a.Close()

	b := &Autosaver{Store: ms, Slot: "main"}
	b.start()
	defer b.Close()
	b.save(engine.GameState{Day: 8, Status: engine.StatusVictory})
	b.save(engine.GameState{Day: 8, Status: engine.StatusVictory})
	assert.Equal(t, []engine.GameStatus{engine.StatusVictory, engine.StatusVictory}, ms.archived)
}

func TestAutosaverSurvivesErrors(t *testing.T) {
	ms := newMemStore()
	ms.failNext = true
	a := &Autosaver{Store: ms, Slot: "main"}
	a.start()
	a.save(engine.GameState{Day: 1})
	a.save(engine.GameState{Day: 2})
	a.Close()
	got, err := ms.Load(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Day)
}
