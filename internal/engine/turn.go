package engine

import "math"

// ProcessTurnEnd runs the epilogue of a time-advancing action. Order matters: later
// steps read what earlier ones changed, and a death stops the clock before time moves.
func ProcessTurnEnd(s *GameState, c *Catalog, resting bool, rng Rand) {
	// 1. sleep debt / madness recovery
	if resting {
		relief := sleepDebtNapRelief
		if s.TimeSlot.Sleeping() {
			relief = sleepDebtSleepRelief
		}
		s.Flags.SleepDebt = math.Max(0, s.Flags.SleepDebt-relief)
		if s.Flags.MadnessStack > 0 {
			s.Flags.MadnessStack--
		}
	} else {
		add := sleepDebtPerTurn
		if s.TimeSlot == SlotLateNight {
			add = sleepDebtLateNight
		}
		s.Flags.SleepDebt += add
	}

	// 2. dependency onset
	if s.Caffeine >= caffeineToxic && !s.Flags.CaffeineDependent && chance(rng, dependencyChance) {
		s.Flags.CaffeineDependent = true
		s.addLog(LogDanger, "Your hands won't stop shaking without caffeine. You're dependent now.")
	}

	// 3. sanity drain buffs
	drain := 0
	for _, b := range s.ActiveBuffs {
		if b.Type == BuffSanityDrain {
			drain += int(math.Round(b.Value))
		}
	}
	if drain > 0 {
		s.Sanity = clampRange(s.Sanity-drain, 0, s.MaxSanity)
		s.logf(LogWarning, "A creeping dread wears on you (Sanity-%d).", drain)
	}

	// 4. buff tick
	kept := s.ActiveBuffs[:0]
	for _, b := range s.ActiveBuffs {
		b.Duration--
		if b.Duration > 0 {
			kept = append(kept, b)
		}
	}
	s.ActiveBuffs = kept

	// 5-6. natural decay
	s.Caffeine = clampRange(s.Caffeine-caffeineDecayPerTurn, 0, MaxCaffeine)
	hunger := satietyDecayPerTurn
	if s.TimeSlot == SlotLateNight {
		hunger = int(float64(hunger) * lateNightSatietyScale)
	}
	s.Satiety = clampRange(s.Satiety-hunger, 0, s.MaxSatiety)
	if s.Satiety == 0 {
		s.HP = clampRange(s.HP-starvationHP, 0, s.MaxHP)
		s.logf(LogWarning, "Your stomach is empty. You're starving (HP-%d).", starvationHP)
	}

	// 7. toxicity
	switch {
	case s.Caffeine > caffeineToxic:
		s.HP = clampRange(s.HP-3, 0, s.MaxHP)
		s.Sanity = clampRange(s.Sanity-2, 0, s.MaxSanity)
	case s.Caffeine > caffeineZone:
		s.HP = clampRange(s.HP-1, 0, s.MaxHP)
		s.Sanity = clampRange(s.Sanity-1, 0, s.MaxSanity)
	}

	// 8. isolation
	if s.TurnCount-s.Flags.LastSocialTurn > isolationTurns {
		s.Sanity = clampRange(s.Sanity-isolationSanity, 0, s.MaxSanity)
		s.logf(LogWarning, "You haven't talked to anyone in ages (Sanity-%d).", isolationSanity)
	}

	// 9. forgetting curve
	forget(s, c)

	// 10. death stops the clock
	if s.HP <= 0 || s.Sanity <= 0 {
		return
	}

	// 11. advance time
	s.TurnCount++
	next, wrapped := s.TimeSlot.Next()
	s.TimeSlot = next
	if wrapped {
		s.Day++
		s.Flags.StudyAllUsedDay = 0
		if s.Day > FinalDay {
			s.addLog(LogSystem, "=== Exam Day ===")
		} else {
			s.logf(LogSystem, "=== Day %d ===", s.Day)
		}
	}

	// 12. history
	s.StatsHistory = append(s.StatsHistory, s.snapshot())

	// 13. turn-end event
	if s.Day <= FinalDay && chance(rng, turnEventChance) {
		presentEvent(s, SelectEvent(s, c.Events, TriggerTurnEnd, rng))
	}
}

func forget(s *GameState, c *Catalog) {
	var order []SubjectID
	if c != nil {
		order = c.SubjectOrder()
	}
	for _, sub := range encounterOrder(s.Knowledge, order) {
		score := s.Knowledge[sub]
		if score <= 0 {
			continue
		}
		if s.TurnCount-s.LastStudied[sub] <= forgetGraceTurns {
			continue
		}
		loss := int(math.Floor(float64(score) * forgetRate))
		if loss < forgetMin {
			loss = forgetMin
		}
		if loss > score {
			loss = score
		}
		s.Knowledge[sub] = score - loss
		s.logf(LogWarning, "%s is slipping away (%s-%d).", sub, sub, loss)
	}
}
