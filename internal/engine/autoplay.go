package engine

// autoplayActions are the choices the random policy draws from. Item actions are
// filled in from the catalog at draw time.
var autoplayActions = []ActionType{
	ActionStudy, ActionStudy, ActionStudy, ActionStudyAll, ActionRest, ActionRest,
	ActionWork, ActionEscapism, ActionAskProfessor, ActionAskSenior, ActionAskFriend,
	ActionBuyItem, ActionUseItem,
}

func pick(rng Rand, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// RandomAction draws a plausible action for the current state. Low vitals bias the
// draw toward resting and eating so headless runs don't die on turn three.
func RandomAction(s *GameState, c *Catalog, rng Rand) Action {
	if s.HP < 30 || s.Sanity < 30 {
		if s.Satiety < 20 {
			for _, it := range c.Items {
				if it.Effect.Satiety > 0 && s.Inventory[it.ID] > 0 {
					return Action{Type: ActionUseItem, Item: it.ID}
				}
			}
		}
		return Action{Type: ActionRest}
	}
	a := Action{Type: autoplayActions[pick(rng, len(autoplayActions))]}
	switch a.Type {
	case ActionStudy:
		a.Subject = c.Subjects[pick(rng, len(c.Subjects))].ID
	case ActionBuyItem:
		a.Item = c.Items[pick(rng, len(c.Items))].ID
	case ActionUseItem:
		var owned []ItemID
		for _, it := range c.Items {
			if s.Inventory[it.ID] > 0 {
				owned = append(owned, it.ID)
			}
		}
		if len(owned) == 0 {
			return Action{Type: ActionRest}
		}
		a.Item = owned[pick(rng, len(owned))]
	}
	return a
}

// Autoplay drives g with the random policy until the run ends or maxSteps inputs
// have been made. Pending events are answered with a random option.
func Autoplay(g *Game, rng Rand, maxSteps int) GameState {
	for step := 0; step < maxSteps; step++ {
		s := &g.state
		if s.Status.Terminal() {
			break
		}
		if s.PendingEvent != nil {
			opts := s.PendingEvent.Options
			g.Resolve(opts[pick(rng, len(opts))].ID)
			continue
		}
		g.Dispatch(RandomAction(s, g.catalog, rng))
	}
	return g.State()
}
