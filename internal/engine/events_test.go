package engine

import (
	"math"
	"testing"
)

func flatEvents() []Event {
	return []Event{
		{ID: "a", Trigger: TriggerTurnEnd, Weight: 1, Effect: &Effect{Money: 1}},
		{ID: "b", Trigger: TriggerTurnEnd, Weight: 2, Effect: &Effect{Money: 2}},
		{ID: "c", Trigger: TriggerTurnEnd, Weight: 3, Effect: &Effect{Money: 3}},
		{ID: "w", Trigger: TriggerWork, Weight: 50},
	}
}

func TestSelectEventRouletteEdges(t *testing.T) {
	s := NewGameState(testCatalog())
	if ev := SelectEvent(&s, flatEvents(), TriggerTurnEnd, constRand(0)); ev == nil || ev.ID != "a" {
		t.Fatalf("rng 0 should pick the first candidate, got %+v", ev)
	}
	s = NewGameState(testCatalog())
	if ev := SelectEvent(&s, flatEvents(), TriggerTurnEnd, constRand(0.9999999)); ev == nil || ev.ID != "c" {
		t.Fatalf("rng just under 1 should pick the last candidate, got %+v", ev)
	}
}

func TestSelectEventSkipsZeroWeight(t *testing.T) {
	s := NewGameState(testCatalog())
	evs := flatEvents()
	evs[0].MaxOccurrences = 1
	s.EventStats["a"] = EventStat{Count: 1}
	if ev := SelectEvent(&s, evs, TriggerTurnEnd, constRand(0)); ev == nil || ev.ID != "b" {
		t.Fatalf("expected first non-zero candidate b, got %+v", ev)
	}
}

func TestSelectEventRecordsOccurrence(t *testing.T) {
	s := NewGameState(testCatalog())
	s.TurnCount = 9
	ev := SelectEvent(&s, flatEvents(), TriggerTurnEnd, constRand(0))
	if ev == nil {
		t.Fatalf("expected an event")
	}
	st := s.EventStats[ev.ID]
	if st.Count != 1 || st.LastTurn != 9 {
		t.Fatalf("occurrence not recorded: %+v", st)
	}
	if len(s.EventHistory) != 1 || s.EventHistory[0] != ev.ID {
		t.Fatalf("history not updated: %v", s.EventHistory)
	}
}

func TestSelectEventNoCandidates(t *testing.T) {
	s := NewGameState(testCatalog())
	if ev := SelectEvent(&s, flatEvents(), TriggerFriend, constRand(0)); ev != nil {
		t.Fatalf("expected nil, got %s", ev.ID)
	}
	if len(s.EventStats) != 0 {
		t.Fatalf("nothing selected, nothing should be recorded")
	}
}

func TestCooldownEnforced(t *testing.T) {
	evs := []Event{{ID: "cd", Trigger: TriggerTurnEnd, Weight: 1, CoolDownTurns: 3}}
	s := NewGameState(testCatalog())
	s.TurnCount = 5
	if SelectEvent(&s, evs, TriggerTurnEnd, constRand(0)) == nil {
		t.Fatalf("first draw should fire")
	}
	for turn := 5; turn < 8; turn++ {
		s.TurnCount = turn
		if ev := SelectEvent(&s, evs, TriggerTurnEnd, constRand(0)); ev != nil {
			t.Fatalf("fired during cooldown at turn %d", turn)
		}
	}
	s.TurnCount = 8
	if SelectEvent(&s, evs, TriggerTurnEnd, constRand(0)) == nil {
		t.Fatalf("should fire again once the cooldown elapsed")
	}
}

func TestMaxOccurrencesEnforced(t *testing.T) {
	evs := []Event{{ID: "once", Trigger: TriggerTurnEnd, Weight: 5, MaxOccurrences: 1}}
	s := NewGameState(testCatalog())
	seed, _ := NewRunSeed("max-occ")
	rng := seed.Stream("sel")
	fired := 0
	for turn := 0; turn < 50; turn++ {
		s.TurnCount = turn
		if SelectEvent(&s, evs, TriggerTurnEnd, rng) != nil {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("maxOccurrences=1 fired %d times", fired)
	}
}

func TestDynamicWeightDecayAndHistory(t *testing.T) {
	s := NewGameState(testCatalog())
	e := Event{ID: "d", Trigger: TriggerTurnEnd, Weight: 10, Decay: 0.5}
	s.EventStats["d"] = EventStat{Count: 2, LastTurn: 0}
	s.TurnCount = 10
	if w := DynamicWeight(&s, e); math.Abs(w-2.5) > 1e-9 {
		t.Fatalf("decay weight: want 2.5 got %v", w)
	}
	s.EventHistory = []string{"x", "d"}
	if w := DynamicWeight(&s, e); math.Abs(w-0.25) > 1e-9 {
		t.Fatalf("history suppression: want 0.25 got %v", w)
	}
}

func TestHistoryRingBounded(t *testing.T) {
	s := NewGameState(testCatalog())
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		recordOccurrence(&s, id)
	}
	if len(s.EventHistory) != historyRingLen || s.EventHistory[0] != "3" {
		t.Fatalf("ring not bounded: %v", s.EventHistory)
	}
}

func TestConditionsFilter(t *testing.T) {
	s := NewGameState(testCatalog())
	night := Event{ID: "n", Trigger: TriggerTurnEnd, Weight: 1, Conditions: &EventConditions{TimeSlots: []TimeSlot{SlotNight}}}
	if night.Matches(&s, TriggerTurnEnd) {
		t.Fatalf("night-only event matched in the morning")
	}
	rich := Event{ID: "r", Trigger: TriggerTurnEnd, Weight: 1, Conditions: &EventConditions{MinMoney: intp(1000)}}
	if rich.Matches(&s, TriggerTurnEnd) {
		t.Fatalf("money condition ignored")
	}
	items := Event{ID: "i", Trigger: TriggerTurnEnd, Weight: 1, Conditions: &EventConditions{RequiredItems: []ItemID{"coffee"}}}
	if items.Matches(&s, TriggerTurnEnd) {
		t.Fatalf("required item ignored")
	}
	s.Inventory["coffee"] = 1
	if !items.Matches(&s, TriggerTurnEnd) {
		t.Fatalf("required item present but event rejected")
	}
}

func TestRelationshipConditionUsesTriggerNPC(t *testing.T) {
	s := NewGameState(testCatalog())
	s.Relationships[RelProfessor] = 10
	e := Event{ID: "p", Weight: 1, Conditions: &EventConditions{MinRelationship: intp(50)}}
	if e.Matches(&s, TriggerProfessor) {
		t.Fatalf("professor relationship 10 should fail min 50")
	}
	if !e.Matches(&s, TriggerTurnEnd) {
		t.Fatalf("relationship bounds are ignored for turn_end")
	}
	s.Relationships[RelProfessor] = 55
	if !e.Matches(&s, TriggerProfessor) {
		t.Fatalf("professor relationship 55 should pass min 50")
	}
}

func TestAvgKnowledgeCondition(t *testing.T) {
	s := NewGameState(testCatalog())
	floor := 20.0
	e := Event{ID: "smart", Weight: 1, Conditions: &EventConditions{MinAvgKnowledge: &floor}}
	if e.Matches(&s, TriggerTurnEnd) {
		t.Fatalf("average 0 should fail min 20")
	}
	for k := range s.Knowledge {
		s.Knowledge[k] = 25
	}
	if !e.Matches(&s, TriggerTurnEnd) {
		t.Fatalf("average 25 should pass min 20")
	}
}
