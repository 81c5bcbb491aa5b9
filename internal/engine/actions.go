package engine

// Action is a player input. Subject and Item are only read by the actions that need them.
type Action struct {
	Type    ActionType `json:"type"`
	Subject SubjectID  `json:"subject,omitempty"`
	Item    ItemID     `json:"item,omitempty"`
}

type outcome int

const (
	// outcomeNoop discards the draft entirely.
	outcomeNoop outcome = iota
	// outcomeRejected keeps the draft (usually a failure log) but no time passes.
	outcomeRejected
	outcomeDone
)

type actionContext struct {
	state   *GameState
	catalog *Catalog
	rng     Rand
	action  Action
}

type ActionHandler func(ac *actionContext) outcome

type ActionSpec struct {
	Type          ActionType
	TimeAdvancing bool
	Resting       bool
	Handler       ActionHandler
}

func actionRegistry() map[ActionType]ActionSpec {
	return map[ActionType]ActionSpec{
		ActionStudy:        {Type: ActionStudy, TimeAdvancing: true, Handler: handleStudy},
		ActionStudyAll:     {Type: ActionStudyAll, TimeAdvancing: true, Handler: handleStudyAll},
		ActionRest:         {Type: ActionRest, TimeAdvancing: true, Resting: true, Handler: handleRest},
		ActionWork:         {Type: ActionWork, TimeAdvancing: true, Handler: handleWork},
		ActionEscapism:     {Type: ActionEscapism, TimeAdvancing: true, Handler: handleEscapism},
		ActionAskProfessor: {Type: ActionAskProfessor, TimeAdvancing: true, Handler: socialHandler(RelProfessor)},
		ActionAskSenior:    {Type: ActionAskSenior, TimeAdvancing: true, Handler: socialHandler(RelSenior)},
		ActionAskFriend:    {Type: ActionAskFriend, TimeAdvancing: true, Handler: socialHandler(RelFriend)},
		ActionUseItem:      {Type: ActionUseItem, Handler: handleUseItem},
		ActionBuyItem:      {Type: ActionBuyItem, Handler: handleBuyItem},
	}
}

// LookupAction exposes the static properties of an action type.
func LookupAction(t ActionType) (ActionSpec, bool) {
	spec, ok := actionRegistry()[t]
	return spec, ok
}

// bumpMadness raises the madness stack when acting on a fraying mind.
func bumpMadness(s *GameState) {
	if s.Sanity < madnessSanityTrigger && s.Flags.MadnessStack < madnessCap {
		s.Flags.MadnessStack++
	}
}

func tierHarm(s *GameState) Effect {
	hp, san := TierOf(s.Caffeine).Harm()
	return Effect{HP: hp, Sanity: san}
}
