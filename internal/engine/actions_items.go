package engine

import (
	"fmt"
	"strings"
)

func handleUseItem(ac *actionContext) outcome {
	s, c := ac.state, ac.catalog
	it, ok := c.Item(ac.action.Item)
	if !ok || s.Inventory[it.ID] <= 0 {
		return outcomeNoop
	}
	eff := it.Effect.Clone()
	eff.Inventory = mergeDeltas(eff.Inventory, map[ItemID]int{it.ID: -1})
	msgs := ApplyEffect(s, eff)
	line := fmt.Sprintf("You use %s.", it.Name)
	typ := LogSuccess

	switch it.Special {
	case SpecialLottery:
		score := s.AvgKnowledge()
		if it.LotterySubject != "" {
			score = float64(s.Knowledge[it.LotterySubject])
		}
		if chance(ac.rng, 0.25+score/200) {
			sub := SelectWeakestSubject(s.Knowledge, c.SubjectOrder(), ac.rng)
			msgs = append(msgs, ApplyEffect(s, Effect{Knowledge: map[SubjectID]int{sub: it.LotteryBoost}})...)
			line += " Somehow it all makes sense!"
		} else {
			msgs = append(msgs, ApplyEffect(s, Effect{Sanity: -it.LotteryPenalty})...)
			line += " It's gibberish. You feel worse for trying."
			typ = LogWarning
		}
	case SpecialPastPapers:
		s.Flags.HasPastPapers++
		line += " Last year's questions, annotated."
	}
	if len(msgs) > 0 {
		line += " (" + strings.Join(msgs, ", ") + ")"
	}
	s.addLog(typ, line)
	return outcomeDone
}

func handleBuyItem(ac *actionContext) outcome {
	s, c := ac.state, ac.catalog
	it, ok := c.Item(ac.action.Item)
	if !ok {
		return outcomeNoop
	}
	if s.Money < it.Price {
		s.logf(LogWarning, "Not enough money for %s (need %d, have %d).", it.Name, it.Price, s.Money)
		return outcomeRejected
	}
	eff := Effect{Money: -it.Price, Inventory: map[ItemID]int{it.ID: 1}}
	s.addLog(LogSuccess, applyAndDescribe(s, eff, fmt.Sprintf("You buy %s.", it.Name)))
	return outcomeDone
}
