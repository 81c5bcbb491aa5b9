package text

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/DaanHessen/cramweek/internal/engine"
)

//go:embed prompts/report.md.tmpl
var reportTemplate string

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// Narrator turns a finished run into Markdown prose.
type Narrator interface {
	Evaluate(ctx context.Context, sum Summary) (string, error)
}

// templateNarrator is a deterministic, offline narrator used as fallback.
type templateNarrator struct{}

func NewTemplateNarrator() Narrator { return templateNarrator{} }

func (templateNarrator) Evaluate(ctx context.Context, sum Summary) (string, error) {
	data := struct {
		Summary
		Title, Opening, Verdict string
		Exam                    bool
	}{Summary: sum, Exam: sum.Status == engine.StatusVictory || sum.Status == engine.StatusFailure}

	switch sum.Status {
	case engine.StatusVictory:
		data.Title = fmt.Sprintf("Rank %s: you survived exam week", sum.Rank)
		data.Opening = fmt.Sprintf("Seven days, %d turns and an unreasonable amount of caffeine later, you walk out of the exam hall with %.1f points.", sum.Turns, sum.FinalScore)
		data.Verdict = "Passed. Go to sleep."
	case engine.StatusFailure:
		data.Title = fmt.Sprintf("Rank %s: the exam won", sum.Rank)
		data.Opening = fmt.Sprintf("You made it to the exam, which is something. The %.1f points you scored are less of something.", sum.FinalScore)
		data.Verdict = "Failed. There is always the retake."
	case engine.StatusGameOverHP:
		data.Title = "Collapsed before the exam"
		data.Opening = fmt.Sprintf("On day %d your body simply stopped cooperating. The exam will happen without you.", sum.Day)
		data.Verdict = "Game over: exhaustion."
	case engine.StatusGameOverSanity:
		data.Title = "Broke before the exam"
		data.Opening = fmt.Sprintf("On day %d something in your head quietly gave up. You stare at the wall for a long time.", sum.Day)
		data.Verdict = "Game over: burnout."
	default:
		data.Title = "Exam week in progress"
		data.Opening = fmt.Sprintf("Day %d. The exam is still ahead of you.", sum.Day)
		data.Verdict = "Keep going."
	}
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "render report")
	}
	return buf.String(), nil
}

// WithFallback prefers primary and answers with fallback when it errors. A nil primary
// always uses fallback.
func WithFallback(primary, fallback Narrator) Narrator {
	return &fallbackNarrator{p: primary, f: fallback}
}

type fallbackNarrator struct{ p, f Narrator }

func (n *fallbackNarrator) Evaluate(ctx context.Context, sum Summary) (string, error) {
	if n.p == nil {
		return n.f.Evaluate(ctx, sum)
	}
	s, err := n.p.Evaluate(ctx, sum)
	if err == nil {
		return s, nil
	}
	slog.Warn("narrator failed, using fallback", "err", err)
	return n.f.Evaluate(ctx, sum)
}

// WithRetry retries n up to attempts times with a linear backoff.
func WithRetry(n Narrator, attempts int, backoff time.Duration) Narrator {
	if attempts < 1 {
		attempts = 1
	}
	return &retryNarrator{n: n, attempts: attempts, backoff: backoff}
}

type retryNarrator struct {
	n        Narrator
	attempts int
	backoff  time.Duration
}

func (r *retryNarrator) Evaluate(ctx context.Context, sum Summary) (string, error) {
	var lastErr error
	for i := 0; i < r.attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", errors.Wrap(ctx.Err(), "narrator retry")
			case <-time.After(time.Duration(i) * r.backoff):
			}
		}
		s, err := r.n.Evaluate(ctx, sum)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	return "", errors.Wrapf(lastErr, "narrator failed after %d attempts", r.attempts)
}

// EvaluationOrError never fails: errors become a short Markdown notice.
func EvaluationOrError(ctx context.Context, n Narrator, sum Summary) string {
	if n == nil {
		return "_(evaluation unavailable: no narrator configured)_"
	}
	s, err := n.Evaluate(ctx, sum)
	if err != nil {
		return fmt.Sprintf("_(evaluation unavailable: %v)_", err)
	}
	return s
}
