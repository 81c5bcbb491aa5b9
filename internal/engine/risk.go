package engine

import "fmt"

// ActionCost is the known HP/Sanity/Satiety movement of an action before any dice.
type ActionCost struct {
	HP      int
	Sanity  int
	Satiety int
}

// RiskReport is advisory. Nothing in the engine refuses an action because of it.
type RiskReport struct {
	HPAfter     int
	SanityAfter int
	Lethal      bool
	Warnings    []string
}

// PredictActionRisk projects cost onto s. Predictive mode also counts the passive
// harm the turn epilogue is known to deal.
func PredictActionRisk(s *GameState, cost ActionCost, predictive bool) RiskReport {
	hp := s.HP + cost.HP
	san := s.Sanity + cost.Sanity
	var warnings []string
	if predictive {
		dhp, dsan, w := passiveHarm(s, cost)
		hp += dhp
		san += dsan
		warnings = append(warnings, w...)
	}
	return finishReport(hp, san, warnings)
}

// PredictOptionRisk projects an event option. Predictive mode assumes the worse of
// the two branches when success is not certain.
func PredictOptionRisk(s *GameState, opt Option, predictive bool) RiskReport {
	hp := s.HP + opt.SuccessEffect.HP
	san := s.Sanity + opt.SuccessEffect.Sanity
	var warnings []string
	if predictive && opt.SuccessRate < 100 && opt.FailureEffect != nil {
		hp = min(hp, s.HP+opt.FailureEffect.HP)
		san = min(san, s.Sanity+opt.FailureEffect.Sanity)
		warnings = append(warnings, fmt.Sprintf("%.0f%% chance of failure", 100-opt.SuccessRate))
	}
	r := finishReport(hp, san, warnings)
	// heuristic: a high-risk gamble on low reserves is flagged even without matching numbers
	if opt.Risk == RiskHigh && (s.HP <= lethalWarnThreshold || s.Sanity <= lethalWarnThreshold) {
		r.Lethal = true
		r.Warnings = append(r.Warnings, "high risk while your reserves are this low")
	}
	return r
}

func finishReport(hp, san int, warnings []string) RiskReport {
	r := RiskReport{HPAfter: hp, SanityAfter: san, Warnings: warnings}
	if hp <= 0 {
		r.Lethal = true
		r.Warnings = append(r.Warnings, "this could drop your HP to zero")
	}
	if san <= 0 {
		r.Lethal = true
		r.Warnings = append(r.Warnings, "this could break your sanity")
	}
	return r
}

func passiveHarm(s *GameState, cost ActionCost) (hp, san int, warnings []string) {
	caf := s.Caffeine - caffeineDecayPerTurn
	switch {
	case caf > caffeineToxic:
		hp, san = -3, -2
		warnings = append(warnings, "caffeine toxicity")
	case caf > caffeineZone:
		hp, san = -1, -1
	}
	for _, b := range s.ActiveBuffs {
		if b.Type == BuffSanityDrain {
			san -= int(b.Value + 0.5)
		}
	}
	if s.TurnCount-s.Flags.LastSocialTurn > isolationTurns {
		san -= isolationSanity
		warnings = append(warnings, "isolation")
	}
	if s.Satiety+cost.Satiety-satietyDecayPerTurn <= 0 {
		hp -= starvationHP
		warnings = append(warnings, "starvation")
	}
	return hp, san, warnings
}

// EstimateActionCost derives the deterministic part of an action's cost.
func EstimateActionCost(s *GameState, c *Catalog, a Action, predictive bool) ActionCost {
	hpHarm, sanHarm := TierOf(s.Caffeine).Harm()
	switch a.Type {
	case ActionStudy, ActionStudyAll:
		slot := c.Study[s.TimeSlot]
		f := 1.0
		if a.Type == ActionStudyAll {
			f = studyAllCostFactor
		}
		cost := ActionCost{HP: scaleInt(slot.HP, f) + hpHarm, Sanity: scaleInt(slot.Sanity, f) + sanHarm, Satiety: scaleInt(slot.Satiety, f)}
		if predictive && a.Type == ActionStudy && s.TimeSlot == SlotLateNight {
			cost.Sanity -= lateNightFailSanity
		}
		return cost
	case ActionRest:
		slot := c.Rest[s.TimeSlot]
		mult := s.BuffMultiplier(BuffRestEfficiency)
		if s.Caffeine >= caffeineZone {
			return ActionCost{HP: scaleInt(scaleInt(slot.HP, mult), restInterferenceHP), Sanity: restInterferenceSanity}
		}
		return ActionCost{HP: scaleInt(slot.HP, mult), Sanity: scaleInt(slot.Sanity, mult)}
	case ActionWork:
		ws := c.Work[s.TimeSlot]
		if !ws.Available {
			return ActionCost{}
		}
		return ActionCost{HP: ws.HP + hpHarm, Sanity: ws.Sanity + sanHarm, Satiety: ws.Satiety}
	case ActionEscapism:
		return ActionCost{Sanity: escapismSanity, Satiety: escapismSatiety}
	case ActionAskProfessor, ActionAskSenior, ActionAskFriend:
		rel := map[ActionType]RelationshipID{ActionAskProfessor: RelProfessor, ActionAskSenior: RelSenior, ActionAskFriend: RelFriend}[a.Type]
		p, ok := c.Persona(rel)
		if !ok || s.Relationships[rel] >= p.Threshold {
			return ActionCost{}
		}
		return ActionCost{HP: p.Base.HP, Sanity: p.Base.Sanity, Satiety: p.Base.Satiety}
	case ActionUseItem:
		it, ok := c.Item(a.Item)
		if !ok {
			return ActionCost{}
		}
		cost := ActionCost{HP: it.Effect.HP, Sanity: it.Effect.Sanity, Satiety: it.Effect.Satiety}
		if predictive && it.Special == SpecialLottery {
			cost.Sanity -= it.LotteryPenalty
		}
		return cost
	}
	return ActionCost{}
}
