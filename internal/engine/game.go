package engine

// Game owns the canonical state of one run. Every mutation goes through a cloned
// draft that is committed only when something actually happened. A Game is not safe
// for concurrent use.
type Game struct {
	catalog *Catalog
	rng     Rand
	state   GameState

	// OnChange receives a private copy after every committed change.
	OnChange func(GameState)
}

func NewGame(c *Catalog, rng Rand) *Game {
	return &Game{catalog: c, rng: rng, state: NewGameState(c)}
}

func (g *Game) Catalog() *Catalog { return g.catalog }

// State returns a deep copy safe to hand to renderers and savers.
func (g *Game) State() GameState { return g.state.Clone() }

// Load replaces the whole state, e.g. from a save slot. A loaded state that is
// already dead or past the final day is settled before anything can act on it.
func (g *Game) Load(s GameState) {
	s = s.Clone()
	s.Normalize(g.catalog)
	g.settle(&s)
	g.commit(s)
}

// Reset starts a fresh run against the same catalog.
func (g *Game) Reset() {
	g.state = NewGameState(g.catalog)
	g.notify()
}

// SetPredictionMode toggles the predictive risk preview.
func (g *Game) SetPredictionMode(on bool) {
	g.state.DebugFlags.PredictionMode = on
	g.notify()
}

// Dispatch runs one player action. It returns false when the action was refused
// without touching state: the run is over, an event awaits a choice, or the
// action made no sense (unknown subject, item not owned).
func (g *Game) Dispatch(a Action) bool {
	if g.state.Status.Terminal() || g.state.PendingEvent != nil {
		return false
	}
	spec, ok := LookupAction(a.Type)
	if !ok {
		return false
	}
	draft := g.state.Clone()
	ac := &actionContext{state: &draft, catalog: g.catalog, rng: g.rng, action: a}
	switch spec.Handler(ac) {
	case outcomeNoop:
		return false
	case outcomeRejected:
		g.commit(draft)
		return true
	}
	if spec.TimeAdvancing && !draft.checkVitals() {
		if draft.PendingEvent != nil {
			draft.PendingTurnEnd = &DeferredTurnEnd{Resting: spec.Resting}
		} else {
			ProcessTurnEnd(&draft, g.catalog, spec.Resting, g.rng)
		}
	}
	g.settle(&draft)
	g.commit(draft)
	return true
}

// Resolve answers the pending event with optionID and, once nothing is pending any
// more, runs the turn epilogue the event postponed.
func (g *Game) Resolve(optionID string) bool {
	if g.state.Status.Terminal() || g.state.PendingEvent == nil {
		return false
	}
	draft := g.state.Clone()
	if !ResolveEvent(&draft, g.catalog, optionID, g.rng) {
		return false
	}
	if draft.PendingEvent == nil && draft.PendingTurnEnd != nil {
		deferred := *draft.PendingTurnEnd
		draft.PendingTurnEnd = nil
		if !draft.checkVitals() {
			ProcessTurnEnd(&draft, g.catalog, deferred.Resting, g.rng)
		}
	}
	g.settle(&draft)
	g.commit(draft)
	return true
}

// Preview estimates the risk of an action without running it.
func (g *Game) Preview(a Action) RiskReport {
	spec, _ := LookupAction(a.Type)
	cost := EstimateActionCost(&g.state, g.catalog, a, g.state.DebugFlags.PredictionMode)
	return PredictActionRisk(&g.state, cost, g.state.DebugFlags.PredictionMode && spec.TimeAdvancing)
}

// PreviewOption estimates the risk of answering the pending event with optionID.
func (g *Game) PreviewOption(optionID string) (RiskReport, bool) {
	if g.state.PendingEvent == nil {
		return RiskReport{}, false
	}
	opt, ok := g.state.PendingEvent.Option(optionID)
	if !ok {
		return RiskReport{}, false
	}
	return PredictOptionRisk(&g.state, opt, g.state.DebugFlags.PredictionMode), true
}

// settle applies the terminal-state rules after a mutation. Money never stays
// below zero once a mutation is committed.
func (g *Game) settle(s *GameState) {
	if s.Money < 0 {
		s.Money = 0
	}
	if s.checkVitals() {
		return
	}
	if s.Day > FinalDay {
		res := EvaluateExam(s, g.catalog.Subjects, g.catalog.Exam)
		s.ExamResult = &res
		s.PendingEvent = nil
		s.PendingTurnEnd = nil
		if res.Passed {
			s.Status = StatusVictory
			s.logf(LogSystem, "Exam finished: %.1f points, rank %s. You passed!", res.FinalScore, res.Rank)
		} else {
			s.Status = StatusFailure
			s.logf(LogSystem, "Exam finished: %.1f points, rank %s. You failed.", res.FinalScore, res.Rank)
		}
	}
}

func (g *Game) commit(s GameState) {
	g.state = s
	g.notify()
}

func (g *Game) notify() {
	if g.OnChange != nil {
		g.OnChange(g.state.Clone())
	}
}
