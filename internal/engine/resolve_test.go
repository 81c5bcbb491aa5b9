package engine

import (
	"strings"
	"testing"
)

func TestSelectWeakestSubjectBias(t *testing.T) {
	seed, _ := NewRunSeed("weakest")
	rng := seed.Stream("pick")
	knowledge := map[SubjectID]int{"A": 0, "B": 50, "C": 50, "D": 50}
	hits := 0
	const draws = 10000
	for i := 0; i < draws; i++ {
		if SelectWeakestSubject(knowledge, nil, rng) == "A" {
			hits++
		}
	}
	// 400 of 550 total weight
	frac := float64(hits) / draws
	if frac < 0.68 || frac > 0.78 {
		t.Fatalf("weakest subject drawn %.3f of the time, want ~0.727", frac)
	}
}

func TestSelectWeakestSubjectEmpty(t *testing.T) {
	if got := SelectWeakestSubject(map[SubjectID]int{}, nil, constRand(0.5)); got != "" {
		t.Fatalf("empty knowledge should yield no subject, got %q", got)
	}
}

func TestSelectWeakestSubjectFloorsWeight(t *testing.T) {
	// all maxed out: every weight is 1, the first minimum gets 4
	knowledge := map[SubjectID]int{"A": 100, "B": 100}
	if got := SelectWeakestSubject(knowledge, []SubjectID{"A", "B"}, constRand(0.79)); got != "A" {
		t.Fatalf("want A, got %s", got)
	}
	if got := SelectWeakestSubject(knowledge, []SubjectID{"A", "B"}, constRand(0.81)); got != "B" {
		t.Fatalf("want B, got %s", got)
	}
}

func pendingMenu(c *Catalog, s *GameState) {
	ev, _ := c.Event("prof_menu")
	cp := ev.Clone()
	s.PendingEvent = &cp
}

func TestResolveDynamicSubjectRetargets(t *testing.T) {
	c := testCatalog()
	s := NewGameState(c)
	s.Knowledge = map[SubjectID]int{"MATH": 50, "PHYS": 0, "HIST": 50, "LIT": 50}
	pendingMenu(c, &s)
	// 0 passes the success check, 0.3*550 = 165 lands on PHYS
	if !ResolveEvent(&s, c, "ask_help", &fixedRand{vals: []float64{0, 0.3}}) {
		t.Fatalf("resolve refused a valid option")
	}
	if s.Knowledge["PHYS"] != 3 || s.Knowledge["MATH"] != 50 {
		t.Fatalf("boost should move to PHYS: %v", s.Knowledge)
	}
	if s.PendingEvent != nil {
		t.Fatalf("pending event not cleared")
	}
	last := s.Logs[len(s.Logs)-1]
	if last.Type != LogSuccess || !strings.HasPrefix(last.Message, "Useful!") {
		t.Fatalf("unexpected log: %+v", last)
	}
}

func TestResolveFailureAppliesFailureEffect(t *testing.T) {
	c := testCatalog()
	s := NewGameState(c)
	s.PendingEvent = &Event{ID: "gamble", Trigger: TriggerTurnEnd, Options: []Option{
		{ID: "go", Label: "Go for it", Risk: RiskHigh, SuccessRate: 30,
			SuccessEffect: Effect{Money: 100}, FailureEffect: &Effect{Sanity: -10}},
	}}
	ResolveEvent(&s, c, "go", constRand(0.5))
	if s.Sanity != 90 || s.Money != 300 {
		t.Fatalf("failure branch not applied: sanity=%d money=%d", s.Sanity, s.Money)
	}
	last := s.Logs[len(s.Logs)-1]
	if last.Type != LogWarning || !strings.HasPrefix(last.Message, fallbackFailureLog) {
		t.Fatalf("expected fallback failure log, got %+v", last)
	}
}

func TestResolveUnknownOptionIsNoop(t *testing.T) {
	c := testCatalog()
	s := NewGameState(c)
	pendingMenu(c, &s)
	before := len(s.Logs)
	if ResolveEvent(&s, c, "nope", constRand(0)) {
		t.Fatalf("unknown option accepted")
	}
	if s.PendingEvent == nil || len(s.Logs) != before {
		t.Fatalf("state touched by an unknown option")
	}
}

func TestResolveChainEventIDBecomesPending(t *testing.T) {
	c := testCatalog()
	c.Events = append(c.Events, Event{ID: "followup", Trigger: TriggerTurnEnd, Text: "Another question.", Kind: KindFlavor,
		Options: []Option{{ID: "ok", Label: "OK", SuccessRate: 100}}})
	s := NewGameState(c)
	s.PendingEvent = &Event{ID: "first", Options: []Option{{ID: "go", Label: "Go", SuccessRate: 100, ChainEventID: "followup"}}}
	ResolveEvent(&s, c, "go", constRand(0))
	if s.PendingEvent == nil || s.PendingEvent.ID != "followup" {
		t.Fatalf("chained event not pending: %+v", s.PendingEvent)
	}
	if s.EventStats["followup"].Count != 1 {
		t.Fatalf("chained event not recorded: %+v", s.EventStats)
	}
}

func TestResolveChainTriggerAppliesPlainEvent(t *testing.T) {
	c := testCatalog()
	c.Events = append(c.Events, Event{ID: "tip", Trigger: TriggerFriend, Text: "A friend slips you snacks.", Kind: KindGood,
		Weight: 1, Effect: &Effect{Satiety: 10}})
	s := NewGameState(c)
	s.PendingEvent = &Event{ID: "first", Options: []Option{{ID: "go", Label: "Go", SuccessRate: 100, ChainTrigger: TriggerFriend}}}
	ResolveEvent(&s, c, "go", constRand(0))
	if s.PendingEvent != nil {
		t.Fatalf("plain chained event should not stay pending")
	}
	if s.Satiety != 90 {
		t.Fatalf("chained effect not applied: satiety=%d", s.Satiety)
	}
}

func TestResolveChainSkippedOnFailure(t *testing.T) {
	c := testCatalog()
	s := NewGameState(c)
	s.PendingEvent = &Event{ID: "first", Options: []Option{{ID: "go", Label: "Go", SuccessRate: 0, ChainEventID: "prof_menu"}}}
	ResolveEvent(&s, c, "go", constRand(0))
	if s.PendingEvent != nil {
		t.Fatalf("chain followed after a failure")
	}
}

func TestResolveUnaffordableOptionSkipsRollAndChain(t *testing.T) {
	c := testCatalog()
	s := NewGameState(c)
	s.Money = 10
	s.PendingEvent = &Event{ID: "night_out", Trigger: TriggerTurnEnd, Options: []Option{
		{ID: "karaoke", Label: "Go to karaoke", SuccessRate: 100,
			SuccessEffect: Effect{Money: -30, Sanity: 20}, ChainEventID: "prof_menu"},
	}}
	rng := &fixedRand{vals: []float64{0, 0}}
	if !ResolveEvent(&s, c, "karaoke", rng) {
		t.Fatalf("unaffordable option should still consume the event")
	}
	if s.Money != 10 || s.Sanity != 100 || s.PendingEvent != nil {
		t.Fatalf("unaffordable option touched state: money=%d sanity=%d pending=%v", s.Money, s.Sanity, s.PendingEvent)
	}
	if rng.i != 0 {
		t.Fatalf("no roll expected, drew %d", rng.i)
	}
	if last := s.Logs[len(s.Logs)-1]; last.Type != LogWarning || !strings.Contains(last.Message, "need ¥30, have ¥10") {
		t.Fatalf("want refusal log, got %+v", last)
	}
}

func TestPresentPlainEventWithoutEffect(t *testing.T) {
	s := NewGameState(testCatalog())
	before := s.Clone()
	if presentEvent(&s, &Event{ID: "rain", Text: "It rains.", Kind: KindFlavor, Effect: &Effect{Knowledge: map[SubjectID]int{"MATH": 0}}}) {
		t.Fatalf("plain event reported as pending")
	}
	if len(s.Logs) != 1 || s.Logs[0].Message != "It rains." {
		t.Fatalf("want the bare event text, got %+v", s.Logs)
	}
	if s.Knowledge["MATH"] != before.Knowledge["MATH"] || s.Money != before.Money {
		t.Fatalf("empty effect changed state")
	}
}
