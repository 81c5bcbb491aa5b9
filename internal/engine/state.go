package engine

import "fmt"

const (
	MaxCaffeine    = 200
	FinalDay       = 7
	historyRingLen = 5
)

// Buff is an active timed modifier. Efficiency buffs multiply; SANITY_DRAIN subtracts Value per turn.
type Buff struct {
	ID       string   `json:"id"`
	Type     BuffType `json:"type"`
	Value    float64  `json:"value"`
	Duration int      `json:"duration"`
}

// LogEntry is stamped with game time rather than wall time.
type LogEntry struct {
	ID       int      `json:"id"`
	Day      int      `json:"day"`
	TimeSlot TimeSlot `json:"timeSlot"`
	Turn     int      `json:"turn"`
	Type     LogType  `json:"type"`
	Message  string   `json:"message"`
}

type EventStat struct {
	Count    int `json:"count"`
	LastTurn int `json:"lastTurn"`
}

// Flags are mechanics the player never sees directly.
type Flags struct {
	SleepDebt         float64 `json:"sleepDebt"`
	LastSleepQuality  float64 `json:"lastSleepQuality"`
	CaffeineDependent bool    `json:"caffeineDependent"`
	HasPastPapers     int     `json:"hasPastPapers"`
	MadnessStack      int     `json:"madnessStack"`
	StudyAllUsedDay   int     `json:"studyAllUsedDay"`
	LastSocialTurn    int     `json:"lastSocialTurn"`
}

type DebugFlags struct {
	ShowHidden     bool `json:"showHidden"`
	PredictionMode bool `json:"predictionMode"`
}

type StatsSnapshot struct {
	Turn     int `json:"turn"`
	Day      int `json:"day"`
	HP       int `json:"hp"`
	Sanity   int `json:"sanity"`
	Caffeine int `json:"caffeine"`
	Satiety  int `json:"satiety"`
	Money    int `json:"money"`
}

// DeferredTurnEnd remembers a turn epilogue postponed by a pending event.
type DeferredTurnEnd struct {
	Resting bool `json:"resting"`
}

// GameState is the single mutable aggregate of a run.
type GameState struct {
	Day       int      `json:"day"`
	TimeSlot  TimeSlot `json:"timeSlot"`
	TurnCount int      `json:"turnCount"`

	HP         int `json:"hp"`
	MaxHP      int `json:"maxHp"`
	Sanity     int `json:"sanity"`
	MaxSanity  int `json:"maxSanity"`
	Caffeine   int `json:"caffeine"`
	Satiety    int `json:"satiety"`
	MaxSatiety int `json:"maxSatiety"`
	Money      int `json:"money"`

	Knowledge     map[SubjectID]int      `json:"knowledge"`
	LastStudied   map[SubjectID]int      `json:"lastStudied"`
	Relationships map[RelationshipID]int `json:"relationships"`
	Inventory     map[ItemID]int         `json:"inventory"`
	ActiveBuffs   []Buff                 `json:"activeBuffs"`

	Logs           []LogEntry           `json:"logs"`
	PendingEvent   *Event               `json:"pendingEvent"`
	PendingTurnEnd *DeferredTurnEnd     `json:"pendingTurnEnd,omitempty"`
	EventHistory   []string             `json:"eventHistory"`
	EventStats     map[string]EventStat `json:"eventStats"`
	Flags          Flags                `json:"flags"`
	Status         GameStatus           `json:"status"`
	StatsHistory   []StatsSnapshot      `json:"statsHistory"`
	ExamResult     *ExamMetrics         `json:"examResult,omitempty"`

	UIScale    float64    `json:"uiScale"`
	DebugFlags DebugFlags `json:"debugFlags"`
}

// NewGameState returns the opening state for a run against catalog c.
func NewGameState(c *Catalog) GameState {
	s := GameState{
		Day:        1,
		TimeSlot:   SlotMorning,
		HP:         100,
		MaxHP:      100,
		Sanity:     100,
		MaxSanity:  100,
		Satiety:    80,
		MaxSatiety: 100,
		Money:      300,
		Relationships: map[RelationshipID]int{
			RelProfessor: 20,
			RelSenior:    20,
			RelFriend:    40,
		},
		Flags:   Flags{LastSleepQuality: 0.7},
		Status:  StatusPlaying,
		UIScale: 1,
	}
	s.Normalize(c)
	return s
}

// Normalize repairs a state that may have come from an older save: nil maps,
// missing subjects and unknown enum values.
func (s *GameState) Normalize(c *Catalog) {
	if s.Knowledge == nil {
		s.Knowledge = map[SubjectID]int{}
	}
	if s.LastStudied == nil {
		s.LastStudied = map[SubjectID]int{}
	}
	if s.Relationships == nil {
		s.Relationships = map[RelationshipID]int{}
	}
	if s.Inventory == nil {
		s.Inventory = map[ItemID]int{}
	}
	if s.EventStats == nil {
		s.EventStats = map[string]EventStat{}
	}
	if c != nil {
		for _, sub := range c.Subjects {
			if _, ok := s.Knowledge[sub.ID]; !ok {
				s.Knowledge[sub.ID] = 0
			}
		}
	}
	for _, r := range AllRelationships {
		if _, ok := s.Relationships[r]; !ok {
			s.Relationships[r] = 0
		}
	}
	if !s.TimeSlot.Validate() {
		s.TimeSlot = SlotMorning
	}
	if !s.Status.Validate() {
		s.Status = StatusPlaying
	}
	if s.Day < 1 {
		s.Day = 1
	}
	if s.MaxHP <= 0 {
		s.MaxHP = 100
	}
	if s.MaxSanity <= 0 {
		s.MaxSanity = 100
	}
	if s.MaxSatiety <= 0 {
		s.MaxSatiety = 100
	}
	if len(s.EventHistory) > historyRingLen {
		s.EventHistory = s.EventHistory[len(s.EventHistory)-historyRingLen:]
	}
}

// Clone returns a deep copy; handlers mutate clones and the Game commits or discards them.
func (s GameState) Clone() GameState {
	out := s
	out.Knowledge = cloneMap(s.Knowledge)
	out.LastStudied = cloneMap(s.LastStudied)
	out.Relationships = cloneMap(s.Relationships)
	out.Inventory = cloneMap(s.Inventory)
	out.EventStats = cloneMap(s.EventStats)
	out.ActiveBuffs = append([]Buff(nil), s.ActiveBuffs...)
	out.Logs = append([]LogEntry(nil), s.Logs...)
	out.EventHistory = append([]string(nil), s.EventHistory...)
	out.StatsHistory = append([]StatsSnapshot(nil), s.StatsHistory...)
	if s.PendingEvent != nil {
		ev := s.PendingEvent.Clone()
		out.PendingEvent = &ev
	}
	if s.PendingTurnEnd != nil {
		d := *s.PendingTurnEnd
		out.PendingTurnEnd = &d
	}
	if s.ExamResult != nil {
		r := s.ExamResult.clone()
		out.ExamResult = &r
	}
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clamp stat into 0-100.
func Clamp(v int) int { return clampRange(v, 0, 100) }

func clampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AvgKnowledge is the mean of all subject scores.
func (s *GameState) AvgKnowledge() float64 {
	if len(s.Knowledge) == 0 {
		return 0
	}
	total := 0
	for _, v := range s.Knowledge {
		total += v
	}
	return float64(total) / float64(len(s.Knowledge))
}

// BuffMultiplier multiplies the values of all active buffs of type t.
func (s *GameState) BuffMultiplier(t BuffType) float64 {
	m := 1.0
	for _, b := range s.ActiveBuffs {
		if b.Type == t {
			m *= b.Value
		}
	}
	return m
}

func (s *GameState) addLog(t LogType, msg string) {
	id := 1
	if n := len(s.Logs); n > 0 {
		id = s.Logs[n-1].ID + 1
	}
	s.Logs = append(s.Logs, LogEntry{
		ID:       id,
		Day:      s.Day,
		TimeSlot: s.TimeSlot,
		Turn:     s.TurnCount,
		Type:     t,
		Message:  msg,
	})
}

func (s *GameState) logf(t LogType, format string, args ...any) {
	s.addLog(t, fmt.Sprintf(format, args...))
}

func (s *GameState) snapshot() StatsSnapshot {
	return StatsSnapshot{
		Turn:     s.TurnCount,
		Day:      s.Day,
		HP:       s.HP,
		Sanity:   s.Sanity,
		Caffeine: s.Caffeine,
		Satiety:  s.Satiety,
		Money:    s.Money,
	}
}

// checkVitals moves the status to a game-over value the moment HP or Sanity hits zero.
func (s *GameState) checkVitals() bool {
	if s.Status.Terminal() {
		return true
	}
	switch {
	case s.HP <= 0:
		s.Status = StatusGameOverHP
		s.addLog(LogDanger, "You collapse. Your body has given out.")
	case s.Sanity <= 0:
		s.Status = StatusGameOverSanity
		s.addLog(LogDanger, "Something inside you snaps. You can't go on.")
	default:
		return false
	}
	s.PendingEvent = nil
	s.PendingTurnEnd = nil
	return true
}
