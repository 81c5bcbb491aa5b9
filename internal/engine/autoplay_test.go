package engine

import (
	"fmt"
	"testing"
)

func TestAutoplayReachesAnEnding(t *testing.T) {
	for i := 0; i < 20; i++ {
		seed, _ := NewRunSeed(fmt.Sprintf("autoplay-%d", i))
		g := NewGame(testCatalog(), seed.Stream("game"))
		s := Autoplay(g, seed.Stream("policy"), 3000)
		if !s.Status.Terminal() {
			t.Fatalf("seed %d: run did not finish (day=%d slot=%s)", i, s.Day, s.TimeSlot)
		}
		if s.HP < 0 || s.HP > s.MaxHP || s.Sanity < 0 || s.Sanity > s.MaxSanity {
			t.Fatalf("seed %d: vitals out of range hp=%d sanity=%d", i, s.HP, s.Sanity)
		}
		if (s.Status == StatusVictory || s.Status == StatusFailure) && s.ExamResult == nil {
			t.Fatalf("seed %d: exam ending without a result", i)
		}
		if s.PendingEvent != nil || s.PendingTurnEnd != nil {
			t.Fatalf("seed %d: terminal state still has pending work", i)
		}
	}
}

func TestRandomActionRestsWhenLow(t *testing.T) {
	c := testCatalog()
	s := NewGameState(c)
	s.HP = 10
	if a := RandomAction(&s, c, constRand(0)); a.Type != ActionRest {
		t.Fatalf("low hp should rest, got %s", a.Type)
	}
}
