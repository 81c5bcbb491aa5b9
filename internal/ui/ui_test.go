package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/cramweek/internal/content"
	"github.com/DaanHessen/cramweek/internal/engine"
	"github.com/DaanHessen/cramweek/internal/text"
	"github.com/DaanHessen/cramweek/internal/util"
)

// constRand never rolls under a probability below 0.99, so no random events fire.
type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func newTestModel(t *testing.T) (model, *engine.Game) {
	t.Helper()
	g := engine.NewGame(content.MustLoad(), constRand(0.99))
	m := newModel(context.Background(), g, text.NewTemplateNarrator(), nil, util.Config{SeedText: "test", Theme: util.DefaultTheme})
	return m, g
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		next, c := m.Update(k)
		m = next.(model)
		cmd = c
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestRestKeyAdvancesTime(t *testing.T) {
	m, g := newTestModel(t)
	m, _ = press(t, m, runes("3"))
	st := g.State()
	assert.Equal(t, 1, st.TurnCount)
	assert.Equal(t, engine.SlotAM, st.TimeSlot)
	assert.Equal(t, viewPlay, m.view)
	assert.Contains(t, m.View(), "WHAT NOW?")
}

func TestSubjectPickerStudiesHighlightedSubject(t *testing.T) {
	m, g := newTestModel(t)
	m, _ = press(t, m, runes("1"))
	require.Equal(t, viewSubject, m.view)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, viewPlay, m.view)

	second := g.Catalog().Subjects[1].ID
	st := g.State()
	assert.Positive(t, st.Knowledge[second])
	assert.Zero(t, st.Knowledge[g.Catalog().Subjects[0].ID])
}

func TestPickerEscapeDoesNothing(t *testing.T) {
	m, g := newTestModel(t)
	m, _ = press(t, m, runes("b"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewPlay, m.view)
	assert.Equal(t, 0, g.State().TurnCount)
	assert.Equal(t, 300, g.State().Money)
}

func TestEmptyBagRefusesToDispatch(t *testing.T) {
	m, g := newTestModel(t)
	before := g.State()
	m, _ = press(t, m, runes("i"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, viewInventory, m.view)
	assert.Equal(t, before.TurnCount, g.State().TurnCount)
}

func TestPendingEventBlocksActions(t *testing.T) {
	m, g := newTestModel(t)
	ev, ok := g.Catalog().Event("lost_wallet")
	require.True(t, ok)
	st := g.State()
	st.Sanity = 80
	st.PendingEvent = &ev
	g.Load(st)

	m, _ = press(t, m, runes("3"))
	assert.NotNil(t, g.State().PendingEvent)
	assert.Equal(t, 0, g.State().TurnCount)
	assert.Contains(t, m.View(), "Hand it in")

	m, _ = press(t, m, runes("1"))
	st = g.State()
	assert.Nil(t, st.PendingEvent)
	assert.Equal(t, 86, st.Sanity)
}

func TestPredictionToggle(t *testing.T) {
	m, g := newTestModel(t)
	m, _ = press(t, m, runes("p"))
	assert.True(t, g.State().DebugFlags.PredictionMode)
	assert.Equal(t, "Prediction mode on.", m.flash)
	press(t, m, runes("p"))
	assert.False(t, g.State().DebugFlags.PredictionMode)
}

func TestThemeCycles(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, runes("t"))
	assert.Equal(t, nextThemeName(util.DefaultTheme, 1), m.theme)
	assert.NotEqual(t, util.DefaultTheme, m.theme)
}

func TestFinishedRunShowsEvaluation(t *testing.T) {
	g := engine.NewGame(content.MustLoad(), constRand(0.99))
	st := g.State()
	st.Status = engine.StatusVictory
	st.Day = 8
	st.ExamResult = &engine.ExamMetrics{FinalScore: 77, Rank: "A", Passed: true}
	g.Load(st)

	m := newModel(context.Background(), g, text.NewTemplateNarrator(), nil, util.Config{})
	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, evaluationMsg{}, msg)

	next, _ := m.Update(msg)
	m = next.(model)
	assert.Equal(t, viewEnding, m.view)
	assert.Contains(t, m.endingRaw, "Rank A")
	assert.False(t, m.evaluating)

	m, _ = press(t, m, runes("3"))
	assert.Equal(t, viewEnding, m.view)

	m, _ = press(t, m, runes("n"))
	assert.Equal(t, viewPlay, m.view)
	assert.Equal(t, engine.StatusPlaying, g.State().Status)
	assert.Empty(t, m.endingRaw)
}

func TestDeathTriggersEvaluation(t *testing.T) {
	m, g := newTestModel(t)
	st := g.State()
	st.HP = 2
	g.Load(st)

	m, cmd := press(t, m, runes("1"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, engine.StatusGameOverHP, g.State().Status)
	require.NotNil(t, cmd)
	assert.True(t, m.evaluating)
	assert.Contains(t, m.View(), "Grading your week")

	next, _ := m.Update(cmd())
	m = next.(model)
	assert.Equal(t, viewEnding, m.view)
	assert.Contains(t, m.endingRaw, "Collapsed before the exam")
}

func TestDigitIndex(t *testing.T) {
	i, ok := digitIndex("1")
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	_, ok = digitIndex("0")
	assert.False(t, ok)
	_, ok = digitIndex("enter")
	assert.False(t, ok)
}
