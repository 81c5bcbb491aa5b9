package engine

import "math"

const examScale = 0.32

type SubjectScore struct {
	Subject SubjectID `json:"subject"`
	Learned int       `json:"learned"`
	Score   float64   `json:"score"`
}

// ExamMetrics is the full breakdown of a final exam.
type ExamMetrics struct {
	Subjects          []SubjectScore `json:"subjects"`
	BaseScore         float64        `json:"baseScore"`
	PhysicalCondition float64        `json:"physicalCondition"`
	MentalStability   float64        `json:"mentalStability"`
	SleepQuality      float64        `json:"sleepQuality"`
	CaffeineJitter    float64        `json:"caffeineJitter"`
	ProfessorBonus    float64        `json:"professorBonus"`
	SeniorLeakBonus   float64        `json:"seniorLeakBonus"`
	MadnessTriggered  bool           `json:"madnessTriggered"`
	FinalScore        float64        `json:"finalScore"`
	Rank              string         `json:"rank"`
	Passed            bool           `json:"passed"`
}

func (m ExamMetrics) clone() ExamMetrics {
	out := m
	out.Subjects = append([]SubjectScore(nil), m.Subjects...)
	return out
}

// EvaluateExam scores the state. It is pure: s is only read.
func EvaluateExam(s *GameState, subjects []Subject, t ExamThresholds) ExamMetrics {
	m := ExamMetrics{}
	for _, sub := range subjects {
		learned := s.Knowledge[sub.ID]
		m.Subjects = append(m.Subjects, SubjectScore{
			Subject: sub.ID,
			Learned: learned,
			Score:   math.Pow(float64(learned), 0.95) * sub.Difficulty * examScale,
		})
	}
	if s.Flags.MadnessStack >= 3 && len(m.Subjects) > 0 {
		m.MadnessTriggered = true
		weakest := 0
		for i, sc := range m.Subjects {
			if sc.Learned < m.Subjects[weakest].Learned {
				weakest = i
			}
		}
		for i := range m.Subjects {
			if i == weakest {
				m.Subjects[i].Score *= 1.5
			} else {
				m.Subjects[i].Score *= 0.9
			}
		}
	}
	for _, sc := range m.Subjects {
		m.BaseScore += sc.Score
	}

	m.PhysicalCondition = physicalCondition(ratio(s.HP, s.MaxHP))
	m.MentalStability = mentalStability(ratio(s.Sanity, s.MaxSanity))
	m.SleepQuality = sleepQuality(s.Flags.SleepDebt, s.Flags.LastSleepQuality)
	m.CaffeineJitter = caffeineJitter(s.Caffeine, s.Flags.CaffeineDependent)
	m.ProfessorBonus = professorBonus(s.Relationships[RelProfessor])
	m.SeniorLeakBonus = seniorLeakBonus(s.Relationships[RelSenior], s.Flags.HasPastPapers)

	m.FinalScore = m.BaseScore * m.PhysicalCondition * m.MentalStability * m.SleepQuality *
		m.CaffeineJitter * m.ProfessorBonus * m.SeniorLeakBonus
	m.Rank = rankFor(m.FinalScore, t)
	m.Passed = m.FinalScore >= t.Pass
	return m
}

func ratio(v, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(v) / float64(max)
}

func physicalCondition(hp float64) float64 {
	switch {
	case hp >= 0.8:
		return 1.05
	case hp >= 0.5:
		return 1.0
	case hp >= 0.3:
		return 0.85
	}
	return 0.7
}

func mentalStability(sanity float64) float64 {
	switch {
	case sanity >= 0.5:
		return 1.0
	case sanity >= 0.2:
		return 0.85
	}
	return 0.65
}

// sleepQuality lets the last night's quality decide while debt is low.
func sleepQuality(debt, last float64) float64 {
	switch {
	case debt < 2:
		switch {
		case last >= 0.8:
			return 1.1
		case last >= 0.5:
			return 1.0
		}
		return 0.95
	case debt < 5:
		return 0.9
	case debt < 8:
		return 0.8
	}
	return 0.65
}

func caffeineJitter(caffeine int, dependent bool) float64 {
	switch {
	case caffeine >= caffeineToxic:
		return 0.85
	case dependent && caffeine < 30:
		return 0.75
	case caffeine >= caffeineAwake && caffeine < caffeineZone:
		return 1.05
	}
	return 1.0
}

func professorBonus(rel int) float64 {
	switch {
	case rel >= 80:
		return 1.15
	case rel >= 60:
		return 1.08
	case rel < 20:
		return 0.95
	}
	return 1.0
}

func seniorLeakBonus(rel, pastPapers int) float64 {
	b := 1.0
	switch {
	case rel >= 70:
		b = 1.1
	case rel >= 50:
		b = 1.05
	}
	b += 0.05 * float64(pastPapers)
	return math.Min(b, 1.2)
}

func rankFor(score float64, t ExamThresholds) string {
	switch {
	case score >= t.S:
		return "S"
	case score >= t.A:
		return "A"
	case score >= t.B:
		return "B"
	case score >= t.Pass:
		return "C"
	}
	return "F"
}
