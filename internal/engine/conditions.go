package engine

// EventConditions gate an event on the current state. Nil bounds are not checked.
type EventConditions struct {
	TimeSlots       []TimeSlot        `json:"timeSlots,omitempty" yaml:"timeSlots,omitempty"`
	MinHP           *int              `json:"minHp,omitempty" yaml:"minHp,omitempty"`
	MaxHP           *int              `json:"maxHp,omitempty" yaml:"maxHp,omitempty"`
	MinSanity       *int              `json:"minSanity,omitempty" yaml:"minSanity,omitempty"`
	MaxSanity       *int              `json:"maxSanity,omitempty" yaml:"maxSanity,omitempty"`
	MinAvgKnowledge *float64          `json:"minAvgKnowledge,omitempty" yaml:"minAvgKnowledge,omitempty"`
	MaxAvgKnowledge *float64          `json:"maxAvgKnowledge,omitempty" yaml:"maxAvgKnowledge,omitempty"`
	MinRelationship *int              `json:"minRelationship,omitempty" yaml:"minRelationship,omitempty"`
	MaxRelationship *int              `json:"maxRelationship,omitempty" yaml:"maxRelationship,omitempty"`
	MinCaffeine     *int              `json:"minCaffeine,omitempty" yaml:"minCaffeine,omitempty"`
	MaxCaffeine     *int              `json:"maxCaffeine,omitempty" yaml:"maxCaffeine,omitempty"`
	MinMoney        *int              `json:"minMoney,omitempty" yaml:"minMoney,omitempty"`
	MinKnowledge    map[SubjectID]int `json:"minKnowledge,omitempty" yaml:"minKnowledge,omitempty"`
	RequiredItems   []ItemID          `json:"requiredItems,omitempty" yaml:"requiredItems,omitempty"`
}

func (c *EventConditions) clone() *EventConditions {
	if c == nil {
		return nil
	}
	out := *c
	out.TimeSlots = append([]TimeSlot(nil), c.TimeSlots...)
	out.MinKnowledge = cloneMap(c.MinKnowledge)
	out.RequiredItems = append([]ItemID(nil), c.RequiredItems...)
	return &out
}

// relationshipFor picks the NPC a relationship bound is checked against.
// turn_end events never read relationships.
func relationshipFor(e Event, trigger EventTrigger) (RelationshipID, bool) {
	if trigger == TriggerTurnEnd {
		return "", false
	}
	if e.Persona != "" {
		return e.Persona, true
	}
	return trigger.Persona()
}

// Matches reports whether every declared condition of e holds in s.
func (e Event) Matches(s *GameState, trigger EventTrigger) bool {
	c := e.Conditions
	if c == nil {
		return true
	}
	if len(c.TimeSlots) > 0 && !contains(c.TimeSlots, s.TimeSlot) {
		return false
	}
	if !withinInt(s.HP, c.MinHP, c.MaxHP) || !withinInt(s.Sanity, c.MinSanity, c.MaxSanity) {
		return false
	}
	if !withinInt(s.Caffeine, c.MinCaffeine, c.MaxCaffeine) {
		return false
	}
	if c.MinMoney != nil && s.Money < *c.MinMoney {
		return false
	}
	if c.MinAvgKnowledge != nil || c.MaxAvgKnowledge != nil {
		avg := s.AvgKnowledge()
		if c.MinAvgKnowledge != nil && avg < *c.MinAvgKnowledge {
			return false
		}
		if c.MaxAvgKnowledge != nil && avg > *c.MaxAvgKnowledge {
			return false
		}
	}
	if c.MinRelationship != nil || c.MaxRelationship != nil {
		if rel, ok := relationshipFor(e, trigger); ok {
			if !withinInt(s.Relationships[rel], c.MinRelationship, c.MaxRelationship) {
				return false
			}
		}
	}
	for sub, need := range c.MinKnowledge {
		if s.Knowledge[sub] < need {
			return false
		}
	}
	for _, it := range c.RequiredItems {
		if s.Inventory[it] <= 0 {
			return false
		}
	}
	return true
}

func withinInt(v int, min, max *int) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}
