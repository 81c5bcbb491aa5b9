package engine

import "math"

// Event is an immutable catalog entry. It carries either a direct Effect or a list
// of Options the player must choose between.
type Event struct {
	ID             string           `json:"id" yaml:"id"`
	Trigger        EventTrigger     `json:"trigger" yaml:"trigger"`
	Persona        RelationshipID   `json:"persona,omitempty" yaml:"persona,omitempty"`
	Text           string           `json:"text" yaml:"text"`
	Kind           EventKind        `json:"type" yaml:"type"`
	Conditions     *EventConditions `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Weight         float64          `json:"weight" yaml:"weight"`
	CoolDownTurns  int              `json:"coolDownTurns,omitempty" yaml:"coolDownTurns,omitempty"`
	MaxOccurrences int              `json:"maxOccurrences,omitempty" yaml:"maxOccurrences,omitempty"`
	Decay          float64          `json:"decay,omitempty" yaml:"decay,omitempty"`
	Effect         *Effect          `json:"effect,omitempty" yaml:"effect,omitempty"`
	Options        []Option         `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option is one branch of an interactive event.
type Option struct {
	ID            string       `json:"id" yaml:"id"`
	Label         string       `json:"label" yaml:"label"`
	Risk          RiskTier     `json:"risk" yaml:"risk"`
	SuccessRate   float64      `json:"successRate" yaml:"successRate"`
	SuccessEffect Effect       `json:"successEffect" yaml:"successEffect"`
	SuccessLog    string       `json:"successLog" yaml:"successLog"`
	FailureEffect *Effect      `json:"failureEffect,omitempty" yaml:"failureEffect,omitempty"`
	FailureLog    string       `json:"failureLog,omitempty" yaml:"failureLog,omitempty"`
	ChainTrigger  EventTrigger `json:"chainTrigger,omitempty" yaml:"chainTrigger,omitempty"`
	ChainEventID  string       `json:"chainEventId,omitempty" yaml:"chainEventId,omitempty"`
	// DynamicSubject retargets the knowledge delta to the weakest subject.
	DynamicSubject bool `json:"dynamicSubject,omitempty" yaml:"dynamicSubject,omitempty"`
}

func (e Event) Interactive() bool { return len(e.Options) > 0 }

func (e Event) Option(id string) (Option, bool) {
	for _, o := range e.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func (e Event) Clone() Event {
	out := e
	out.Conditions = e.Conditions.clone()
	if e.Effect != nil {
		eff := e.Effect.Clone()
		out.Effect = &eff
	}
	if e.Options != nil {
		out.Options = make([]Option, len(e.Options))
		for i, o := range e.Options {
			out.Options[i] = o.clone()
		}
	}
	return out
}

func (o Option) clone() Option {
	out := o
	out.SuccessEffect = o.SuccessEffect.Clone()
	if o.FailureEffect != nil {
		f := o.FailureEffect.Clone()
		out.FailureEffect = &f
	}
	return out
}

// DynamicWeight is the selection weight of e right now: zero while capped or cooling
// down, decayed per past occurrence and damped if it fired recently.
func DynamicWeight(s *GameState, e Event) float64 {
	w := e.Weight
	st, fired := s.EventStats[e.ID]
	if fired && st.Count > 0 {
		if e.MaxOccurrences > 0 && st.Count >= e.MaxOccurrences {
			return 0
		}
		if e.CoolDownTurns > 0 && s.TurnCount-st.LastTurn < e.CoolDownTurns {
			return 0
		}
		if e.Decay > 0 {
			w *= math.Pow(e.Decay, float64(st.Count))
		}
	}
	if contains(s.EventHistory, e.ID) {
		w *= 0.1
	}
	if w < 0 {
		return 0
	}
	return w
}

// Candidate is an eligible event with its current weight.
type Candidate struct {
	Event  Event
	Weight float64
}

// Candidates returns the events of trigger that pass their conditions with a positive
// dynamic weight, in catalog order.
func Candidates(s *GameState, events []Event, trigger EventTrigger) []Candidate {
	var out []Candidate
	for _, e := range events {
		if e.Trigger != trigger || !e.Matches(s, trigger) {
			continue
		}
		if w := DynamicWeight(s, e); w > 0 {
			out = append(out, Candidate{Event: e, Weight: w})
		}
	}
	return out
}

// roulette walks the candidates subtracting weights from a single draw.
func roulette(cands []Candidate, rng Rand) Event {
	total := 0.0
	for _, c := range cands {
		total += c.Weight
	}
	r := rng.Float64() * total
	for _, c := range cands {
		r -= c.Weight
		if r <= 0 {
			return c.Event
		}
	}
	return cands[len(cands)-1].Event
}

// SelectEvent draws one event for trigger and records the occurrence. Returns nil
// when nothing is eligible.
func SelectEvent(s *GameState, events []Event, trigger EventTrigger, rng Rand) *Event {
	cands := Candidates(s, events, trigger)
	if len(cands) == 0 {
		return nil
	}
	picked := roulette(cands, rng).Clone()
	recordOccurrence(s, picked.ID)
	return &picked
}

func recordOccurrence(s *GameState, id string) {
	if s.EventStats == nil {
		s.EventStats = map[string]EventStat{}
	}
	st := s.EventStats[id]
	st.Count++
	st.LastTurn = s.TurnCount
	s.EventStats[id] = st
	s.EventHistory = append(s.EventHistory, id)
	if len(s.EventHistory) > historyRingLen {
		s.EventHistory = s.EventHistory[len(s.EventHistory)-historyRingLen:]
	}
}
