package text

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/cramweek/internal/content"
	"github.com/DaanHessen/cramweek/internal/engine"
)

func finishedSummary(t *testing.T) Summary {
	t.Helper()
	c := content.MustLoad()
	s := engine.NewGameState(c)
	s.Status = engine.StatusVictory
	s.Day = 8
	s.TurnCount = 49
	s.Knowledge[c.Subjects[0].ID] = 80
	s.Logs = append(s.Logs,
		engine.LogEntry{Type: engine.LogSystem, Message: "Day 8 begins."},
		engine.LogEntry{Type: engine.LogInfo, Message: "You studied Math until the numbers blurred."},
	)
	s.ExamResult = &engine.ExamMetrics{
		Subjects:   []engine.SubjectScore{{Subject: c.Subjects[0].ID, Learned: 80, Score: 23.0}},
		FinalScore: 71.5,
		Rank:       "B",
		Passed:     true,
	}
	return SummaryFromState(s, c)
}

func TestSummaryFromState(t *testing.T) {
	sum := finishedSummary(t)
	assert.Equal(t, "B", sum.Rank)
	assert.True(t, sum.Passed)
	assert.InDelta(t, 71.5, sum.FinalScore, 1e-9)
	require.NotEmpty(t, sum.Subjects)
	assert.Equal(t, 80, sum.Subjects[0].Learned)
	assert.InDelta(t, 23.0, sum.Subjects[0].Score, 1e-9)
	assert.Equal(t, []string{"You studied Math until the numbers blurred."}, sum.Highlights)
}

func TestSummaryDefaultsToRankF(t *testing.T) {
	c := content.MustLoad()
	s := engine.NewGameState(c)
	s.Status = engine.StatusGameOverHP
	sum := SummaryFromState(s, c)
	assert.Equal(t, "F", sum.Rank)
	assert.False(t, sum.Passed)
	assert.Zero(t, sum.FinalScore)
}

func TestSummaryCacheKeyDeterminism(t *testing.T) {
	a := finishedSummary(t)
	b := finishedSummary(t)
	ka, err := SummaryCacheKey(a)
	require.NoError(t, err)
	kb, err := SummaryCacheKey(b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)

	b.Money++
	kc, err := SummaryCacheKey(b)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kc)
}

func TestTemplateNarrator(t *testing.T) {
	sum := finishedSummary(t)
	out, err := NewTemplateNarrator().Evaluate(context.Background(), sum)
	require.NoError(t, err)
	assert.Contains(t, out, "# Rank B")
	assert.Contains(t, out, "Exam score")
	assert.Contains(t, out, "23.0")
	assert.Contains(t, out, "until the numbers blurred")
	assert.Contains(t, out, "**Passed. Go to sleep.**")

	sum.Status = engine.StatusGameOverSanity
	out, err = NewTemplateNarrator().Evaluate(context.Background(), sum)
	require.NoError(t, err)
	assert.Contains(t, out, "Broke before the exam")
	assert.NotContains(t, out, "Exam score")
}

type stubNarrator struct {
	fail  int32
	calls atomic.Int32
	out   string
}

func (s *stubNarrator) Evaluate(ctx context.Context, sum Summary) (string, error) {
	n := s.calls.Add(1)
	if n <= s.fail {
		return "", errors.New("boom")
	}
	return s.out, nil
}

func TestWithFallback(t *testing.T) {
	primary := &stubNarrator{fail: 1, out: "primary"}
	n := WithFallback(primary, &stubNarrator{out: "fallback"})

	out, err := n.Evaluate(context.Background(), Summary{})
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)

	out, err = n.Evaluate(context.Background(), Summary{})
	require.NoError(t, err)
	assert.Equal(t, "primary", out)

	out, err = WithFallback(nil, &stubNarrator{out: "only"}).Evaluate(context.Background(), Summary{})
	require.NoError(t, err)
	assert.Equal(t, "only", out)
}

func TestWithRetry(t *testing.T) {
	flaky := &stubNarrator{fail: 2, out: "ok"}
	out, err := WithRetry(flaky, 3, time.Millisecond).Evaluate(context.Background(), Summary{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.EqualValues(t, 3, flaky.calls.Load())

	broken := &stubNarrator{fail: 10}
	_, err = WithRetry(broken, 2, time.Millisecond).Evaluate(context.Background(), Summary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	broken := &stubNarrator{fail: 10}
	_, err := WithRetry(broken, 5, time.Hour).Evaluate(ctx, Summary{})
	require.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, broken.calls.Load())
}

func TestEvaluationOrError(t *testing.T) {
	out := EvaluationOrError(context.Background(), &stubNarrator{fail: 1}, Summary{})
	assert.True(t, strings.HasPrefix(out, "_(evaluation unavailable: boom"))
	assert.Contains(t, EvaluationOrError(context.Background(), nil, Summary{}), "no narrator configured")
}

func TestGeminiNarratorCachesAndCleans(t *testing.T) {
	var calls atomic.Int32
	var prompt string
	g := newGeminiNarrator(func(ctx context.Context, p string) (string, error) {
		calls.Add(1)
		prompt = p
		return "```markdown\n# Well done\n```", nil
	})
	sum := finishedSummary(t)

	out, err := g.Evaluate(context.Background(), sum)
	require.NoError(t, err)
	assert.Equal(t, "# Well done", out)
	assert.Contains(t, prompt, "PASSED with rank B")
	assert.Contains(t, prompt, "knowledge 80")

	_, err = g.Evaluate(context.Background(), sum)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
	require.NoError(t, g.Close())
}

func TestGeminiNarratorEmptyAnswer(t *testing.T) {
	g := newGeminiNarrator(func(ctx context.Context, p string) (string, error) { return "  ", nil })
	_, err := g.Evaluate(context.Background(), Summary{})
	require.ErrorIs(t, err, errEmptyResponse)
}
