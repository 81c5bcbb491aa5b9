package engine

// socialHandler builds the handler for approaching one NPC. Past the persona's
// threshold the interaction menu opens instead of the base exchange.
func socialHandler(rel RelationshipID) ActionHandler {
	return func(ac *actionContext) outcome {
		s, c := ac.state, ac.catalog
		p, ok := c.Persona(rel)
		if !ok {
			return outcomeNoop
		}
		if p.MenuEvent != "" && s.Relationships[rel] >= p.Threshold {
			if ev, ok := c.Event(p.MenuEvent); ok {
				s.Flags.LastSocialTurn = s.TurnCount
				bumpMadness(s)
				menu := ev.Clone()
				presentEvent(s, &menu)
				return outcomeDone
			}
		}
		if cost := p.Base.Cost(); cost > s.Money {
			s.logf(LogWarning, "You can't afford to meet %s (need ¥%d, have ¥%d).", p.Name, cost, s.Money)
			return outcomeRejected
		}
		s.Flags.LastSocialTurn = s.TurnCount
		bumpMadness(s)

		eff := p.Base.Clone()
		if p.WeakestBoost != 0 {
			sub := SelectWeakestSubject(s.Knowledge, c.SubjectOrder(), ac.rng)
			eff.Knowledge = mergeDeltas(eff.Knowledge, map[SubjectID]int{sub: p.WeakestBoost})
		}
		line := p.Line
		if line == "" {
			line = "You spend some time with " + p.Name + "."
		}
		s.addLog(LogInfo, applyAndDescribe(s, eff, line))

		if chance(ac.rng, p.EventChance) {
			presentEvent(s, SelectEvent(s, c.Events, TriggerFor(rel), ac.rng))
		}
		return outcomeDone
	}
}
