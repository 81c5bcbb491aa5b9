package text

import (
	"bytes"
	"context"
	_ "embed"
	"log/slog"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

//go:embed prompts/evaluate.txt
var evaluatePrompt string

var evaluateTmpl = template.Must(template.New("evaluate").Parse(evaluatePrompt))

const DefaultModel = "gemini-2.5-flash"

var errEmptyResponse = errors.New("no content returned from Gemini")

// GeminiNarrator asks a Gemini model for the end-of-run evaluation. Answers are
// cached per summary so re-opening the ending screen does not cost another call.
type GeminiNarrator struct {
	client   *genai.Client
	generate func(ctx context.Context, prompt string) (string, error)
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]string
}

func NewGeminiNarrator(ctx context.Context, apiKey, model string) (*GeminiNarrator, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "create Gemini client")
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.9)
	n := newGeminiNarrator(func(ctx context.Context, prompt string) (string, error) {
		resp, err := m.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", errEmptyResponse
		}
		var sb strings.Builder
		for _, p := range resp.Candidates[0].Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() == 0 {
			return "", errEmptyResponse
		}
		return sb.String(), nil
	})
	n.client = client
	return n, nil
}

func newGeminiNarrator(gen func(ctx context.Context, prompt string) (string, error)) *GeminiNarrator {
	return &GeminiNarrator{generate: gen, timeout: 30 * time.Second, cache: map[string]string{}}
}

func (g *GeminiNarrator) Evaluate(ctx context.Context, sum Summary) (string, error) {
	key, err := SummaryCacheKey(sum)
	if err != nil {
		return "", errors.Wrap(err, "summary key")
	}
	g.mu.Lock()
	if s, ok := g.cache[string(key)]; ok {
		g.mu.Unlock()
		return s, nil
	}
	g.mu.Unlock()

	var buf bytes.Buffer
	if err := evaluateTmpl.Execute(&buf, sum); err != nil {
		return "", errors.Wrap(err, "render prompt")
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	start := time.Now()
	out, err := g.generate(ctx, buf.String())
	if err != nil {
		return "", errors.Wrap(err, "gemini evaluate")
	}
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```markdown")
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errEmptyResponse
	}
	slog.Debug("gemini evaluation", "status", sum.Status, "took", time.Since(start), "chars", len(out))

	g.mu.Lock()
	g.cache[string(key)] = out
	g.mu.Unlock()
	return out, nil
}

func (g *GeminiNarrator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
