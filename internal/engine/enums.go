package engine

// String backed enums so saves stay readable and round-trip through JSON/YAML untouched.

type TimeSlot string
type GameStatus string
type LogType string
type BuffType string
type EventTrigger string
type EventKind string
type RiskTier string
type RelationshipID string
type ActionType string

// SubjectID and ItemID are free-form keys supplied by the content tables.
type SubjectID string
type ItemID string

const (
	SlotMorning     TimeSlot = "MORNING"
	SlotAM          TimeSlot = "AM"
	SlotNoon        TimeSlot = "NOON"
	SlotAfternoon   TimeSlot = "AFTERNOON"
	SlotAfterSchool TimeSlot = "AFTER_SCHOOL"
	SlotNight       TimeSlot = "NIGHT"
	SlotLateNight   TimeSlot = "LATE_NIGHT"
)

// AllTimeSlots is ordered; the slot after the last one is the first slot of the next day.
var AllTimeSlots = []TimeSlot{SlotMorning, SlotAM, SlotNoon, SlotAfternoon, SlotAfterSchool, SlotNight, SlotLateNight}

const (
	StatusPlaying        GameStatus = "PLAYING"
	StatusVictory        GameStatus = "VICTORY"
	StatusFailure        GameStatus = "FAILURE"
	StatusGameOverHP     GameStatus = "GAME_OVER_HP"
	StatusGameOverSanity GameStatus = "GAME_OVER_SANITY"
)

var AllGameStatuses = []GameStatus{StatusPlaying, StatusVictory, StatusFailure, StatusGameOverHP, StatusGameOverSanity}

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
	LogDanger  LogType = "danger"
	LogSystem  LogType = "system"
)

var AllLogTypes = []LogType{LogInfo, LogSuccess, LogWarning, LogDanger, LogSystem}

const (
	BuffStudyEfficiency BuffType = "STUDY_EFFICIENCY"
	BuffRestEfficiency  BuffType = "REST_EFFICIENCY"
	BuffSanityDrain     BuffType = "SANITY_DRAIN"
)

var AllBuffTypes = []BuffType{BuffStudyEfficiency, BuffRestEfficiency, BuffSanityDrain}

const (
	TriggerTurnEnd   EventTrigger = "turn_end"
	TriggerProfessor EventTrigger = "action_professor"
	TriggerSenior    EventTrigger = "action_senior"
	TriggerFriend    EventTrigger = "action_friend"
	TriggerWork      EventTrigger = "action_work"
	// TriggerMenu events are persona interaction menus. They are looked up by id, never drawn.
	TriggerMenu EventTrigger = "menu"
)

var AllEventTriggers = []EventTrigger{TriggerTurnEnd, TriggerProfessor, TriggerSenior, TriggerFriend, TriggerWork, TriggerMenu}

const (
	KindGood   EventKind = "good"
	KindBad    EventKind = "bad"
	KindFlavor EventKind = "flavor"
	KindMixed  EventKind = "mixed"
)

var AllEventKinds = []EventKind{KindGood, KindBad, KindFlavor, KindMixed}

const (
	RiskSafe RiskTier = "safe"
	RiskLow  RiskTier = "low"
	RiskHigh RiskTier = "high"
)

var AllRiskTiers = []RiskTier{RiskSafe, RiskLow, RiskHigh}

const (
	RelProfessor RelationshipID = "PROFESSOR"
	RelSenior    RelationshipID = "SENIOR"
	RelFriend    RelationshipID = "FRIEND"
)

var AllRelationships = []RelationshipID{RelProfessor, RelSenior, RelFriend}

const (
	ActionStudy        ActionType = "study"
	ActionStudyAll     ActionType = "study_all"
	ActionRest         ActionType = "rest"
	ActionWork         ActionType = "work"
	ActionEscapism     ActionType = "escapism"
	ActionAskProfessor ActionType = "ask_professor"
	ActionAskSenior    ActionType = "ask_senior"
	ActionAskFriend    ActionType = "ask_friend"
	ActionUseItem      ActionType = "use_item"
	ActionBuyItem      ActionType = "buy_item"
)

var AllActionTypes = []ActionType{ActionStudy, ActionStudyAll, ActionRest, ActionWork, ActionEscapism, ActionAskProfessor, ActionAskSenior, ActionAskFriend, ActionUseItem, ActionBuyItem}

func contains[T ~string](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (t TimeSlot) Validate() bool       { return contains(AllTimeSlots, t) }
func (s GameStatus) Validate() bool     { return contains(AllGameStatuses, s) }
func (l LogType) Validate() bool        { return contains(AllLogTypes, l) }
func (b BuffType) Validate() bool       { return contains(AllBuffTypes, b) }
func (e EventTrigger) Validate() bool   { return contains(AllEventTriggers, e) }
func (k EventKind) Validate() bool      { return contains(AllEventKinds, k) }
func (r RiskTier) Validate() bool       { return contains(AllRiskTiers, r) }
func (r RelationshipID) Validate() bool { return contains(AllRelationships, r) }
func (a ActionType) Validate() bool     { return contains(AllActionTypes, a) }

func ListTimeSlots() []TimeSlot           { return append([]TimeSlot{}, AllTimeSlots...) }
func ListRelationships() []RelationshipID { return append([]RelationshipID{}, AllRelationships...) }
func ListActionTypes() []ActionType       { return append([]ActionType{}, AllActionTypes...) }

// Next returns the following slot and whether the day rolled over.
func (t TimeSlot) Next() (TimeSlot, bool) {
	for i, s := range AllTimeSlots {
		if s == t {
			if i == len(AllTimeSlots)-1 {
				return AllTimeSlots[0], true
			}
			return AllTimeSlots[i+1], false
		}
	}
	return AllTimeSlots[0], false
}

// Sleeping reports whether resting in this slot counts as a night's sleep rather than a nap.
func (t TimeSlot) Sleeping() bool { return t == SlotNight || t == SlotLateNight }

// Terminal reports whether the status ends the run.
func (s GameStatus) Terminal() bool { return s != StatusPlaying && s != "" }

// Persona maps an NPC interaction trigger to the relationship it reads.
func (e EventTrigger) Persona() (RelationshipID, bool) {
	switch e {
	case TriggerProfessor:
		return RelProfessor, true
	case TriggerSenior:
		return RelSenior, true
	case TriggerFriend:
		return RelFriend, true
	}
	return "", false
}

// TriggerFor is the inverse of Persona.
func TriggerFor(r RelationshipID) EventTrigger {
	switch r {
	case RelProfessor:
		return TriggerProfessor
	case RelSenior:
		return TriggerSenior
	case RelFriend:
		return TriggerFriend
	}
	return ""
}
