package text

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/DaanHessen/cramweek/internal/engine"
)

type SubjectLine struct {
	Name    string  `json:"name"`
	Learned int     `json:"learned"`
	Score   float64 `json:"score"`
}

// Summary is everything a narrator may know about a finished run.
type Summary struct {
	Status        engine.GameStatus `json:"status"`
	Day           int               `json:"day"`
	Turns         int               `json:"turns"`
	HP            int               `json:"hp"`
	Sanity        int               `json:"sanity"`
	Money         int               `json:"money"`
	Subjects      []SubjectLine     `json:"subjects"`
	Relationships map[string]int    `json:"relationships"`
	FinalScore    float64           `json:"finalScore"`
	Rank          string            `json:"rank"`
	Passed        bool              `json:"passed"`
	Madness       bool              `json:"madness"`
	Dependent     bool              `json:"dependent"`
	Highlights    []string          `json:"highlights"`
}

const maxHighlights = 6

// SummaryFromState condenses a state. Highlights are the most recent non-system
// log lines, oldest first.
func SummaryFromState(s engine.GameState, c *engine.Catalog) Summary {
	sum := Summary{
		Status:        s.Status,
		Day:           s.Day,
		Turns:         s.TurnCount,
		HP:            s.HP,
		Sanity:        s.Sanity,
		Money:         s.Money,
		Relationships: map[string]int{},
		Dependent:     s.Flags.CaffeineDependent,
		Rank:          "F",
	}
	for rel, v := range s.Relationships {
		sum.Relationships[string(rel)] = v
	}
	scores := map[engine.SubjectID]float64{}
	if s.ExamResult != nil {
		sum.FinalScore = s.ExamResult.FinalScore
		sum.Rank = s.ExamResult.Rank
		sum.Passed = s.ExamResult.Passed
		sum.Madness = s.ExamResult.MadnessTriggered
		for _, sc := range s.ExamResult.Subjects {
			scores[sc.Subject] = sc.Score
		}
	}
	for _, sub := range c.Subjects {
		sum.Subjects = append(sum.Subjects, SubjectLine{Name: sub.Name, Learned: s.Knowledge[sub.ID], Score: scores[sub.ID]})
	}
	for i := len(s.Logs) - 1; i >= 0 && len(sum.Highlights) < maxHighlights; i-- {
		if s.Logs[i].Type == engine.LogSystem {
			continue
		}
		sum.Highlights = append([]string{s.Logs[i].Message}, sum.Highlights...)
	}
	return sum
}

// SummaryCacheKey is a stable digest of sum. encoding/json sorts map keys, so equal
// summaries always hash the same.
func SummaryCacheKey(sum Summary) ([]byte, error) {
	b, err := json.Marshal(sum)
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(b)
	return h[:], nil
}
