package engine

import (
	"fmt"
	"math"
	"strings"
)

// diminishing steps study efficiency down as a subject fills up.
func diminishing(score int) float64 {
	switch {
	case score >= 80:
		return 0.4
	case score >= 60:
		return 0.6
	case score >= 40:
		return 0.8
	}
	return 1
}

func progression(day int) float64 { return 1 + progressionPerDay*float64(day-1) }

// knowledgeGain converts an efficiency into whole knowledge points.
func knowledgeGain(eff, difficulty float64, day int) int {
	if eff <= studyMinEfficiency {
		return 0
	}
	g := int(math.Floor(studyBaseGain * eff * difficulty * progression(day)))
	if g < 1 {
		g = 1
	}
	return g
}

type studyRoll struct {
	eff         float64
	extraSanity int
	notes       []string
	logType     LogType
}

// rollStudy computes the efficiency of one study session. It reads the RNG only
// for the late-night gamble and the toxicity crash.
func rollStudy(s *GameState, slot StudySlot, rng Rand) studyRoll {
	tier := TierOf(s.Caffeine)
	r := studyRoll{
		eff:     slot.Efficiency * tier.Bonus() * s.BuffMultiplier(BuffStudyEfficiency),
		logType: LogInfo,
	}
	if tier != TierNone {
		r.notes = append(r.notes, tier.String())
	}
	if s.TimeSlot == SlotLateNight {
		zone := lateNightZoneBase + float64(s.Sanity)/400
		fail := lateNightFailBase + float64(100-s.Sanity)/250
		roll := rng.Float64()
		switch {
		case roll < zone:
			r.eff *= lateNightZoneMult
			r.notes = append(r.notes, "in the zone")
			r.logType = LogSuccess
		case roll < zone+fail:
			r.eff *= lateNightFailMult
			r.extraSanity = -lateNightFailSanity
			r.notes = append(r.notes, "the words swim off the page")
			r.logType = LogDanger
		}
	}
	if s.Caffeine >= caffeineToxic && chance(rng, caffeineCrashChance) {
		r.eff = 0
		r.notes = append(r.notes, "caffeine crash")
		r.logType = LogDanger
	}
	return r
}

func handleStudy(ac *actionContext) outcome {
	s, c := ac.state, ac.catalog
	sub, ok := c.Subject(ac.action.Subject)
	if !ok {
		return outcomeNoop
	}
	slot := c.Study[s.TimeSlot]
	roll := rollStudy(s, slot, ac.rng)
	eff := roll.eff * diminishing(s.Knowledge[sub.ID])
	gain := knowledgeGain(eff, sub.Difficulty, s.Day)

	cost := MergeEffects(Effect{HP: slot.HP, Sanity: slot.Sanity + roll.extraSanity, Satiety: slot.Satiety}, tierHarm(s))
	cost.Knowledge = map[SubjectID]int{sub.ID: gain}
	if s.LastStudied == nil {
		s.LastStudied = map[SubjectID]int{}
	}
	s.LastStudied[sub.ID] = s.TurnCount
	bumpMadness(s)

	line := fmt.Sprintf("You study %s", sub.Name)
	if len(roll.notes) > 0 {
		line += " [" + strings.Join(roll.notes, ", ") + "]"
	}
	if gain == 0 {
		line += ", but nothing sticks"
	}
	s.addLog(roll.logType, applyAndDescribe(s, cost, line+"."))
	return outcomeDone
}

// handleStudyAll runs a half-efficiency session over every subject, once per day.
func handleStudyAll(ac *actionContext) outcome {
	s, c := ac.state, ac.catalog
	if s.Flags.StudyAllUsedDay == s.Day {
		s.addLog(LogWarning, "You already crammed everything today. Your brain refuses.")
		return outcomeRejected
	}
	slot := c.Study[s.TimeSlot]
	tier := TierOf(s.Caffeine)
	base := slot.Efficiency * tier.Bonus() * s.BuffMultiplier(BuffStudyEfficiency) * studyAllEfficiency
	crashed := s.Caffeine >= caffeineToxic && chance(ac.rng, caffeineCrashChance)

	cost := MergeEffects(Effect{
		HP:      scaleInt(slot.HP, studyAllCostFactor),
		Sanity:  scaleInt(slot.Sanity, studyAllCostFactor),
		Satiety: scaleInt(slot.Satiety, studyAllCostFactor),
	}, tierHarm(s))
	cost.Knowledge = map[SubjectID]int{}
	if s.LastStudied == nil {
		s.LastStudied = map[SubjectID]int{}
	}
	for _, sub := range c.Subjects {
		eff := base * diminishing(s.Knowledge[sub.ID])
		if crashed {
			eff = 0
		}
		cost.Knowledge[sub.ID] = knowledgeGain(eff, sub.Difficulty, s.Day)
		s.LastStudied[sub.ID] = s.TurnCount
	}
	s.Flags.StudyAllUsedDay = s.Day
	bumpMadness(s)

	line := "You cram every subject back to back."
	typ := LogInfo
	if crashed {
		line = "You try to cram everything, but the caffeine crash wipes you out."
		typ = LogDanger
	}
	s.addLog(typ, applyAndDescribe(s, cost, line))
	return outcomeDone
}

func scaleInt(v int, f float64) int { return int(math.Round(float64(v) * f)) }
