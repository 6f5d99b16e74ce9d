package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/infrastructure/prompts"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

var _ output.FieldHinter = (*Hinter)(nil)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4o-mini"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// MaxCandidates caps how many elements go into one prompt.
	MaxCandidates int
	// RequestsPerSecond throttles completions; zero disables the limit.
	RequestsPerSecond float64
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:            apiKey,
		Model:             DefaultModel,
		BaseURL:           DefaultBaseURL,
		MaxCandidates:     40,
		RequestsPerSecond: 1,
	}
}

// Hinter asks a chat model to tag form elements the pattern tables missed.
type Hinter struct {
	client  *openai.Client
	cfg     Config
	limiter *rate.Limiter
	logger  output.LoggerPort
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.Debug("HTTP Request", "method", req.Method, "url", req.URL.String())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("HTTP Request failed", "url", req.URL.String(), "error", err)
		return nil, err
	}

	t.logger.Debug("HTTP Response", "status", resp.Status, "statusCode", resp.StatusCode)
	return resp, nil
}

func NewHinter(cfg Config, logger output.LoggerPort) *Hinter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultConfig("").MaxCandidates
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	config.HTTPClient = &http.Client{
		Transport: &loggingTransport{base: http.DefaultTransport, logger: logger},
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Hinter{
		client:  openai.NewClientWithConfig(config),
		cfg:     cfg,
		limiter: limiter,
		logger:  logger,
	}
}

func (h *Hinter) Hint(ctx context.Context, candidates []output.FieldCandidate) (map[string]entity.FieldTag, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > h.cfg.MaxCandidates {
		candidates = candidates[:h.cfg.MaxCandidates]
	}

	system, err := prompts.GenerateHinterPrompt(prompts.HinterPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to render system prompt: %w", err)
	}
	prompt, err := buildPrompt(candidates)
	if err != nil {
		return nil, err
	}

	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	h.logger.Debug("Requesting field hints", "model", h.cfg.Model, "candidates", len(candidates))

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: h.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.Ref] = true
	}

	hints, err := parseHints(resp.Choices[0].Message.Content, known)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Received field hints", "hints", len(hints))
	return hints, nil
}

type candidateView struct {
	Ref         string   `json:"ref"`
	Kind        string   `json:"kind"`
	Type        string   `json:"type,omitempty"`
	Name        string   `json:"name,omitempty"`
	ID          string   `json:"id,omitempty"`
	Label       string   `json:"label,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	AriaLabel   string   `json:"aria_label,omitempty"`
	Text        string   `json:"text,omitempty"`
	Context     []string `json:"context,omitempty"`
}

func buildPrompt(candidates []output.FieldCandidate) (string, error) {
	views := make([]candidateView, 0, len(candidates))
	for _, c := range candidates {
		ctxText := c.Info.Ancestors
		if len(ctxText) > 2 {
			ctxText = ctxText[:2]
		}
		views = append(views, candidateView{
			Ref:         c.Ref,
			Kind:        string(c.Info.Kind),
			Type:        c.Info.Type,
			Name:        c.Info.Name,
			ID:          c.Info.ID,
			Label:       c.Info.Label,
			Placeholder: c.Info.Placeholder,
			AriaLabel:   c.Info.AriaLabel,
			Text:        truncate(c.Info.Text, 80),
			Context:     truncateAll(ctxText, 120),
		})
	}

	b, err := json.Marshal(views)
	if err != nil {
		return "", fmt.Errorf("failed to encode candidates: %w", err)
	}
	return "Elements:\n" + string(b), nil
}

// parseHints pulls the first JSON object out of the model's answer and keeps
// only fillable tags for refs that were asked about.
func parseHints(content string, known map[string]bool) (map[string]entity.FieldTag, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse hints: %w", err)
	}

	hints := make(map[string]entity.FieldTag, len(raw))
	for ref, name := range raw {
		if !known[ref] {
			continue
		}
		tag, ok := entity.ParseFieldTag(name)
		if !ok || tag.IsExclusion() {
			continue
		}
		hints[ref] = tag
	}
	return hints, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncateAll(in []string, n int) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = truncate(s, n)
	}
	return out
}
