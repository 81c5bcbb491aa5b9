package engine

import "fmt"

func handleRest(ac *actionContext) outcome {
	s, c := ac.state, ac.catalog
	slot := c.Rest[s.TimeSlot]
	mult := s.BuffMultiplier(BuffRestEfficiency)
	hp := scaleInt(slot.HP, mult)
	san := scaleInt(slot.Sanity, mult)

	if s.Caffeine >= caffeineZone {
		// caffeine interference: the body lies down, the heart keeps racing
		eff := Effect{HP: scaleInt(hp, restInterferenceHP), Sanity: restInterferenceSanity}
		s.Flags.LastSleepQuality = sleepQualityPoor
		s.addLog(LogWarning, applyAndDescribe(s, eff, "You lie down, but the caffeine keeps your heart pounding."))
		return outcomeDone
	}

	line := "You take a short nap."
	s.Flags.LastSleepQuality = sleepQualityNap
	if s.TimeSlot.Sleeping() {
		line = "You sleep properly for once."
		s.Flags.LastSleepQuality = sleepQualityGood
	}
	s.addLog(LogSuccess, applyAndDescribe(s, Effect{HP: hp, Sanity: san}, line))
	return outcomeDone
}

func handleWork(ac *actionContext) outcome {
	s, c := ac.state, ac.catalog
	ws, ok := c.Work[s.TimeSlot]
	if !ok || !ws.Available {
		s.addLog(LogWarning, "Nobody is hiring at this hour.")
		return outcomeRejected
	}
	bumpMadness(s)
	tier := TierOf(s.Caffeine)
	base := MergeEffects(Effect{
		Money:   scaleInt(ws.Pay, tier.Bonus()),
		HP:      ws.HP,
		Sanity:  ws.Sanity,
		Satiety: ws.Satiety,
	}, tierHarm(s))
	line := fmt.Sprintf("You work a shift at the %s.", ws.Label)

	if chance(ac.rng, workEventChance) {
		if ev := SelectEvent(s, c.Events, TriggerWork, ac.rng); ev != nil {
			if ev.Interactive() {
				s.addLog(LogInfo, applyAndDescribe(s, base, line))
				presentEvent(s, ev)
				return outcomeDone
			}
			merged := base
			if ev.Effect != nil {
				merged = MergeEffects(base, *ev.Effect)
			}
			s.addLog(logTypeFor(ev.Kind), applyAndDescribe(s, merged, line+" "+ev.Text))
			return outcomeDone
		}
	}
	s.addLog(LogInfo, applyAndDescribe(s, base, line))
	return outcomeDone
}

func handleEscapism(ac *actionContext) outcome {
	s := ac.state
	if s.Money < escapismCost {
		s.addLog(LogWarning, "You can't even afford to escape right now.")
		return outcomeRejected
	}
	eff := Effect{Sanity: escapismSanity, Satiety: escapismSatiety, Money: -escapismCost}
	line := "You lose yourself in games and videos for a while."
	if s.TimeSlot == SlotLateNight {
		eff.Sanity += escapismLateBonus
		s.Flags.SleepDebt += escapismLateSleepDebt
		line = "One more episode. Then another. It's very late."
	}
	s.addLog(LogSuccess, applyAndDescribe(s, eff, line))
	return outcomeDone
}
