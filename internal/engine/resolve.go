package engine

import (
	"sort"
	"strings"
)

const fallbackFailureLog = "It didn't work out."

// SelectWeakestSubject draws a subject weighted by max(1, 100-score), with the
// current lowest score (first in order on ties) weighted four times.
func SelectWeakestSubject(knowledge map[SubjectID]int, order []SubjectID, rng Rand) SubjectID {
	keys := encounterOrder(knowledge, order)
	if len(keys) == 0 {
		return ""
	}
	minIdx := 0
	for i, k := range keys {
		if knowledge[k] < knowledge[keys[minIdx]] {
			minIdx = i
		}
	}
	weights := make([]float64, len(keys))
	total := 0.0
	for i, k := range keys {
		w := float64(100 - knowledge[k])
		if w < 1 {
			w = 1
		}
		if i == minIdx {
			w *= 4
		}
		weights[i] = w
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return keys[i]
		}
	}
	return keys[len(keys)-1]
}

// encounterOrder lists the keys of knowledge in the preferred order, with any keys
// missing from order appended alphabetically.
func encounterOrder(knowledge map[SubjectID]int, order []SubjectID) []SubjectID {
	out := make([]SubjectID, 0, len(knowledge))
	seen := make(map[SubjectID]bool, len(knowledge))
	for _, k := range order {
		if _, ok := knowledge[k]; ok && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []SubjectID
	for k := range knowledge {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

// retarget moves the summed knowledge delta of eff onto subject.
func retarget(eff Effect, subject SubjectID) Effect {
	out := eff.Clone()
	total := sumValues(eff.Knowledge)
	if total == 0 || subject == "" {
		return out
	}
	out.Knowledge = map[SubjectID]int{subject: total}
	return out
}

func logTypeFor(k EventKind) LogType {
	switch k {
	case KindGood:
		return LogSuccess
	case KindBad:
		return LogDanger
	case KindMixed:
		return LogWarning
	}
	return LogInfo
}

// presentEvent either parks an interactive event as pending or applies a plain one.
// Reports whether the event is now pending.
func presentEvent(s *GameState, ev *Event) bool {
	if ev == nil {
		return false
	}
	if ev.Interactive() {
		s.PendingEvent = ev
		s.addLog(LogInfo, ev.Text)
		return true
	}
	if ev.Effect == nil || ev.Effect.IsZero() {
		s.addLog(logTypeFor(ev.Kind), ev.Text)
		return false
	}
	s.addLog(logTypeFor(ev.Kind), applyAndDescribe(s, *ev.Effect, ev.Text))
	return false
}

// ResolveEvent applies the chosen option of the pending event. Unknown options and
// a missing pending event are no-ops. An option whose success costs more than the
// player has is consumed as a failure with no effect and no chain.
func ResolveEvent(s *GameState, c *Catalog, optionID string, rng Rand) bool {
	if s.PendingEvent == nil {
		return false
	}
	opt, ok := s.PendingEvent.Option(optionID)
	if !ok {
		return false
	}
	s.PendingEvent = nil

	if cost := opt.SuccessEffect.Cost(); cost > s.Money {
		s.logf(LogWarning, "You can't afford to %s (need ¥%d, have ¥%d).", strings.ToLower(opt.Label), cost, s.Money)
		return true
	}

	if rng.Float64()*100 < opt.SuccessRate {
		eff := opt.SuccessEffect
		if opt.DynamicSubject {
			eff = retarget(eff, SelectWeakestSubject(s.Knowledge, c.SubjectOrder(), rng))
		}
		line := opt.SuccessLog
		if line == "" {
			line = opt.Label
		}
		s.addLog(LogSuccess, applyAndDescribe(s, eff, line))
		followChain(s, c, opt, rng)
		return true
	}

	line := opt.FailureLog
	if line == "" {
		line = fallbackFailureLog
	}
	if opt.FailureEffect != nil {
		line = applyAndDescribe(s, *opt.FailureEffect, line)
	}
	s.addLog(LogWarning, line)
	return true
}

func followChain(s *GameState, c *Catalog, opt Option, rng Rand) {
	var next *Event
	switch {
	case opt.ChainTrigger != "":
		next = SelectEvent(s, c.Events, opt.ChainTrigger, rng)
	case opt.ChainEventID != "":
		if ev, ok := c.Event(opt.ChainEventID); ok {
			cp := ev.Clone()
			recordOccurrence(s, cp.ID)
			next = &cp
		}
	}
	presentEvent(s, next)
}
