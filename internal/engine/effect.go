package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// BuffSpec is the declarative form of a Buff inside an Effect.
type BuffSpec struct {
	Type     BuffType `json:"type" yaml:"type"`
	Value    float64  `json:"value" yaml:"value"`
	Duration int      `json:"duration" yaml:"duration"`
}

// Effect is a bundle of deltas applied atomically to a state.
type Effect struct {
	HP            int                    `json:"hp,omitempty" yaml:"hp,omitempty"`
	Sanity        int                    `json:"sanity,omitempty" yaml:"sanity,omitempty"`
	Caffeine      int                    `json:"caffeine,omitempty" yaml:"caffeine,omitempty"`
	Satiety       int                    `json:"satiety,omitempty" yaml:"satiety,omitempty"`
	Money         int                    `json:"money,omitempty" yaml:"money,omitempty"`
	Knowledge     map[SubjectID]int      `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	Relationships map[RelationshipID]int `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Inventory     map[ItemID]int         `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Buffs         []BuffSpec             `json:"buffs,omitempty" yaml:"buffs,omitempty"`
}

func (e Effect) Clone() Effect {
	out := e
	out.Knowledge = cloneMap(e.Knowledge)
	out.Relationships = cloneMap(e.Relationships)
	out.Inventory = cloneMap(e.Inventory)
	out.Buffs = append([]BuffSpec(nil), e.Buffs...)
	return out
}

// IsZero reports whether applying e would change nothing.
func (e Effect) IsZero() bool {
	if e.HP != 0 || e.Sanity != 0 || e.Caffeine != 0 || e.Satiety != 0 || e.Money != 0 || len(e.Buffs) > 0 {
		return false
	}
	return !anyNonZero(e.Knowledge) && !anyNonZero(e.Relationships) && !anyNonZero(e.Inventory)
}

// Cost is the money e spends, zero when it pays out or leaves money alone.
func (e Effect) Cost() int {
	if e.Money < 0 {
		return -e.Money
	}
	return 0
}

// MergeEffects sums b onto a without touching either argument.
func MergeEffects(a, b Effect) Effect {
	out := a.Clone()
	out.HP += b.HP
	out.Sanity += b.Sanity
	out.Caffeine += b.Caffeine
	out.Satiety += b.Satiety
	out.Money += b.Money
	out.Knowledge = mergeDeltas(out.Knowledge, b.Knowledge)
	out.Relationships = mergeDeltas(out.Relationships, b.Relationships)
	out.Inventory = mergeDeltas(out.Inventory, b.Inventory)
	out.Buffs = append(out.Buffs, b.Buffs...)
	return out
}

func mergeDeltas[K comparable](dst, src map[K]int) map[K]int {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[K]int, len(src))
	}
	for k, v := range src {
		dst[k] += v
	}
	return dst
}

// ApplyEffect adds every delta in eff to s, clamps, and returns one message per change.
func ApplyEffect(s *GameState, eff Effect) []string {
	var msgs []string
	if eff.HP != 0 {
		s.HP = clampRange(s.HP+eff.HP, 0, s.MaxHP)
		msgs = append(msgs, signed("HP", eff.HP))
	}
	if eff.Sanity != 0 {
		s.Sanity = clampRange(s.Sanity+eff.Sanity, 0, s.MaxSanity)
		msgs = append(msgs, signed("Sanity", eff.Sanity))
	}
	if eff.Caffeine != 0 {
		s.Caffeine = clampRange(s.Caffeine+eff.Caffeine, 0, MaxCaffeine)
		msgs = append(msgs, signed("Caffeine", eff.Caffeine))
	}
	if eff.Satiety != 0 {
		s.Satiety = clampRange(s.Satiety+eff.Satiety, 0, s.MaxSatiety)
		msgs = append(msgs, signed("Satiety", eff.Satiety))
	}
	if eff.Money != 0 {
		s.Money += eff.Money
		msgs = append(msgs, signed("Money", eff.Money))
	}
	if len(eff.Knowledge) > 0 && s.Knowledge == nil {
		s.Knowledge = map[SubjectID]int{}
	}
	for _, k := range sortedKeys(eff.Knowledge) {
		d := eff.Knowledge[k]
		if d == 0 {
			continue
		}
		s.Knowledge[k] = Clamp(s.Knowledge[k] + d)
		msgs = append(msgs, signed(string(k), d))
	}
	if len(eff.Relationships) > 0 && s.Relationships == nil {
		s.Relationships = map[RelationshipID]int{}
	}
	for _, k := range sortedKeys(eff.Relationships) {
		d := eff.Relationships[k]
		if d == 0 {
			continue
		}
		s.Relationships[k] = Clamp(s.Relationships[k] + d)
		msgs = append(msgs, signed(string(k), d))
	}
	if len(eff.Inventory) > 0 && s.Inventory == nil {
		s.Inventory = map[ItemID]int{}
	}
	for _, k := range sortedKeys(eff.Inventory) {
		d := eff.Inventory[k]
		if d == 0 {
			continue
		}
		n := s.Inventory[k] + d
		if n < 0 {
			n = 0
		}
		s.Inventory[k] = n
		msgs = append(msgs, signed(string(k), d))
	}
	for _, b := range eff.Buffs {
		s.ActiveBuffs = append(s.ActiveBuffs, Buff{
			ID:       uuid.NewString(),
			Type:     b.Type,
			Value:    b.Value,
			Duration: b.Duration,
		})
		msgs = append(msgs, fmt.Sprintf("%s x%g (%d turns)", b.Type, b.Value, b.Duration))
	}
	return msgs
}

// applyAndDescribe applies eff and joins its messages onto a log line.
func applyAndDescribe(s *GameState, eff Effect, line string) string {
	msgs := ApplyEffect(s, eff)
	if len(msgs) == 0 {
		return line
	}
	if line == "" {
		return strings.Join(msgs, ", ")
	}
	return line + " (" + strings.Join(msgs, ", ") + ")"
}

func signed(label string, d int) string {
	if d > 0 {
		return fmt.Sprintf("%s+%d", label, d)
	}
	return fmt.Sprintf("%s%d", label, d)
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func anyNonZero[K comparable](m map[K]int) bool {
	for _, v := range m {
		if v != 0 {
			return true
		}
	}
	return false
}

func sumValues[K comparable](m map[K]int) int {
	t := 0
	for _, v := range m {
		t += v
	}
	return t
}
