package content

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/cramweek/internal/engine"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Subjects, 4)
	assert.Equal(t, []engine.SubjectID{"MATH", "PHYSICS", "HISTORY", "LITERATURE"}, c.SubjectOrder())
	for _, slot := range engine.AllTimeSlots {
		assert.Contains(t, c.Study, slot)
		assert.Contains(t, c.Rest, slot)
	}

	thresholds := map[engine.RelationshipID]int{}
	for _, p := range c.Personas {
		thresholds[p.ID] = p.Threshold
		menu, ok := c.Event(p.MenuEvent)
		require.True(t, ok, "menu %s", p.MenuEvent)
		assert.True(t, menu.Interactive())
	}
	assert.Equal(t, map[engine.RelationshipID]int{
		engine.RelProfessor: 60, engine.RelSenior: 50, engine.RelFriend: 40,
	}, thresholds)

	lottery, ok := c.Item("mystery_notes")
	require.True(t, ok)
	assert.Equal(t, engine.SpecialLottery, lottery.Special)
}

func TestEveryTriggerHasEvents(t *testing.T) {
	c := MustLoad()
	seen := map[engine.EventTrigger]int{}
	for _, e := range c.Events {
		seen[e.Trigger]++
	}
	for _, trig := range engine.AllEventTriggers {
		assert.NotZero(t, seen[trig], "no events for %s", trig)
	}
}

func TestLoadFSRejectsDanglingChain(t *testing.T) {
	base, err := files.ReadFile("catalog.yaml")
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"catalog.yaml": {Data: base},
		"events/bad.yaml": {Data: []byte(`
events:
  - id: broken
    trigger: turn_end
    text: broken
    type: flavor
    weight: 1
    options:
      - id: go
        label: go
        successRate: 100
        chainEventId: nowhere
`)},
	}
	_, err = LoadFS(fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrUnknownEvent)
}

func TestLoadFSRejectsMalformedYAML(t *testing.T) {
	fsys := fstest.MapFS{"catalog.yaml": {Data: []byte("subjects: [unclosed")}}
	_, err := LoadFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse catalog")
}

func TestSeededRunsWithRealContent(t *testing.T) {
	c := MustLoad()
	endings := map[engine.GameStatus]int{}
	for i := 0; i < 25; i++ {
		seed, err := engine.NewRunSeed(fmt.Sprintf("smoke-%d", i))
		require.NoError(t, err)
		g := engine.NewGame(c, seed.Stream("game"))
		s := engine.Autoplay(g, seed.Stream("policy"), 5000)
		require.True(t, s.Status.Terminal(), "seed %d stuck on day %d", i, s.Day)
		assert.GreaterOrEqual(t, s.Money, 0, "seed %d", i)
		for sub, v := range s.Knowledge {
			assert.True(t, v >= 0 && v <= 100, "%s=%d", sub, v)
		}
		for id, n := range s.Inventory {
			assert.GreaterOrEqual(t, n, 0, "inventory %s", id)
		}
		assert.LessOrEqual(t, len(s.EventHistory), 5)
		endings[s.Status]++
	}
	assert.NotEmpty(t, endings)
}
