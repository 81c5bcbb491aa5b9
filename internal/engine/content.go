package engine

import (
	"errors"
	"fmt"
)

// Subject is one exam subject. Difficulty scales both study gain and exam weight.
type Subject struct {
	ID         SubjectID `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Difficulty float64   `json:"difficulty" yaml:"difficulty"`
}

// Item special behaviours beyond the static effect.
const (
	SpecialLottery    = "lottery"
	SpecialPastPapers = "past_papers"
)

type Item struct {
	ID          ItemID `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Price       int    `json:"price" yaml:"price"`
	Effect      Effect `json:"effect" yaml:"effect"`
	Special     string `json:"special,omitempty" yaml:"special,omitempty"`
	// lottery tuning
	LotterySubject SubjectID `json:"lotterySubject,omitempty" yaml:"lotterySubject,omitempty"`
	LotteryBoost   int       `json:"lotteryBoost,omitempty" yaml:"lotteryBoost,omitempty"`
	LotteryPenalty int       `json:"lotteryPenalty,omitempty" yaml:"lotteryPenalty,omitempty"`
}

type StudySlot struct {
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
	HP         int     `json:"hp" yaml:"hp"`
	Sanity     int     `json:"sanity" yaml:"sanity"`
	Satiety    int     `json:"satiety" yaml:"satiety"`
}

type RestSlot struct {
	HP     int `json:"hp" yaml:"hp"`
	Sanity int `json:"sanity" yaml:"sanity"`
}

type WorkSlot struct {
	Available bool   `json:"available" yaml:"available"`
	Label     string `json:"label" yaml:"label"`
	Pay       int    `json:"pay" yaml:"pay"`
	HP        int    `json:"hp" yaml:"hp"`
	Sanity    int    `json:"sanity" yaml:"sanity"`
	Satiety   int    `json:"satiety" yaml:"satiety"`
}

// Persona describes an NPC the player can approach.
type Persona struct {
	ID        RelationshipID `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Threshold int            `json:"threshold" yaml:"threshold"`
	MenuEvent string         `json:"menuEvent" yaml:"menuEvent"`
	// Base applies below the threshold; WeakestBoost is added to the weakest subject.
	Base         Effect  `json:"base" yaml:"base"`
	WeakestBoost int     `json:"weakestBoost" yaml:"weakestBoost"`
	EventChance  float64 `json:"eventChance" yaml:"eventChance"`
	Line         string  `json:"line" yaml:"line"`
}

// ExamThresholds are ascending score cut-offs. Pass doubles as the C threshold.
type ExamThresholds struct {
	Pass float64 `json:"pass" yaml:"pass"`
	B    float64 `json:"b" yaml:"b"`
	A    float64 `json:"a" yaml:"a"`
	S    float64 `json:"s" yaml:"s"`
}

// Catalog is the read-only content a run is played against.
type Catalog struct {
	Version  string                `json:"version" yaml:"version"`
	Subjects []Subject             `json:"subjects" yaml:"subjects"`
	Items    []Item                `json:"items" yaml:"items"`
	Study    map[TimeSlot]StudySlot `json:"study" yaml:"study"`
	Rest     map[TimeSlot]RestSlot  `json:"rest" yaml:"rest"`
	Work     map[TimeSlot]WorkSlot  `json:"work" yaml:"work"`
	Personas []Persona             `json:"personas" yaml:"personas"`
	Events   []Event               `json:"events" yaml:"events"`
	Exam     ExamThresholds        `json:"exam" yaml:"exam"`

	eventIdx map[string]int
}

func (c *Catalog) Subject(id SubjectID) (Subject, bool) {
	for _, s := range c.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

func (c *Catalog) Item(id ItemID) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (c *Catalog) Persona(id RelationshipID) (Persona, bool) {
	for _, p := range c.Personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// Event looks an event up by id.
func (c *Catalog) Event(id string) (Event, bool) {
	if c.eventIdx == nil {
		c.index()
	}
	i, ok := c.eventIdx[id]
	if !ok {
		return Event{}, false
	}
	return c.Events[i], true
}

func (c *Catalog) index() {
	c.eventIdx = make(map[string]int, len(c.Events))
	for i, e := range c.Events {
		c.eventIdx[e.ID] = i
	}
}

// SubjectOrder is the stable encounter order used for tie breaking.
func (c *Catalog) SubjectOrder() []SubjectID {
	out := make([]SubjectID, 0, len(c.Subjects))
	for _, s := range c.Subjects {
		out = append(out, s.ID)
	}
	return out
}

var ErrUnknownEvent = errors.New("unknown event")

// Validate checks cross references so a bad table fails at startup rather than mid-run.
func (c *Catalog) Validate() error {
	if len(c.Subjects) == 0 {
		return errors.New("catalog: no subjects")
	}
	seen := map[string]bool{}
	for _, s := range c.Subjects {
		if s.ID == "" || seen["s:"+string(s.ID)] {
			return fmt.Errorf("catalog: bad or duplicate subject %q", s.ID)
		}
		if s.Difficulty <= 0 {
			return fmt.Errorf("catalog: subject %s has non-positive difficulty", s.ID)
		}
		seen["s:"+string(s.ID)] = true
	}
	for _, it := range c.Items {
		if it.ID == "" || seen["i:"+string(it.ID)] {
			return fmt.Errorf("catalog: bad or duplicate item %q", it.ID)
		}
		seen["i:"+string(it.ID)] = true
		if it.Special != "" && it.Special != SpecialLottery && it.Special != SpecialPastPapers {
			return fmt.Errorf("catalog: item %s has unknown special %q", it.ID, it.Special)
		}
	}
	for _, slot := range AllTimeSlots {
		if _, ok := c.Study[slot]; !ok {
			return fmt.Errorf("catalog: study table missing slot %s", slot)
		}
		if _, ok := c.Rest[slot]; !ok {
			return fmt.Errorf("catalog: rest table missing slot %s", slot)
		}
	}
	for _, e := range c.Events {
		if e.ID == "" || seen["e:"+e.ID] {
			return fmt.Errorf("catalog: bad or duplicate event %q", e.ID)
		}
		seen["e:"+e.ID] = true
		if !e.Trigger.Validate() {
			return fmt.Errorf("catalog: event %s has unknown trigger %q", e.ID, e.Trigger)
		}
	}
	c.index()
	for _, e := range c.Events {
		for _, o := range e.Options {
			if o.SuccessRate < 0 || o.SuccessRate > 100 {
				return fmt.Errorf("catalog: option %s/%s successRate %v out of range", e.ID, o.ID, o.SuccessRate)
			}
			if o.ChainEventID != "" {
				if _, ok := c.eventIdx[o.ChainEventID]; !ok {
					return fmt.Errorf("catalog: option %s/%s chains to %s: %w", e.ID, o.ID, o.ChainEventID, ErrUnknownEvent)
				}
			}
			if o.ChainTrigger != "" && !o.ChainTrigger.Validate() {
				return fmt.Errorf("catalog: option %s/%s has unknown chain trigger %q", e.ID, o.ID, o.ChainTrigger)
			}
		}
	}
	for _, p := range c.Personas {
		if !p.ID.Validate() {
			return fmt.Errorf("catalog: unknown persona %q", p.ID)
		}
		if p.MenuEvent != "" {
			if _, ok := c.eventIdx[p.MenuEvent]; !ok {
				return fmt.Errorf("catalog: persona %s menu %s: %w", p.ID, p.MenuEvent, ErrUnknownEvent)
			}
		}
	}
	if !(c.Exam.Pass < c.Exam.B && c.Exam.B < c.Exam.A && c.Exam.A < c.Exam.S) {
		return errors.New("catalog: exam thresholds must ascend")
	}
	return nil
}
