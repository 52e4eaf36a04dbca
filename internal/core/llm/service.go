package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/chart"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/intent"
)

// Resolution is the NL resolver output: best-effort structured params, a
// preliminary display suggestion and an optional viz spec. Nothing here is
// trusted until normalized/validated downstream.
type Resolution struct {
	Params  intent.Params
	Display string
	Viz     *chart.Spec
	Notes   string
}

type rawResolution struct {
	intent.Params
	Display string      `json:"display"`
	Viz     *chart.Spec `json:"viz"`
	Notes   string      `json:"notes"`
}

// Service wraps an LLM provider for dependency injection.
type Service struct {
	provider LLMProvider
}

// NewService creates the LLM service with the provider configured in the
// environment.
func NewService() (*Service, error) {
	cfg, err := LoadProviderFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load LLM config: %w", err)
	}
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	log.Info().Str("provider", provider.GetProviderName()).Str("model", cfg.Model).Msg("🤖 LLM provider ready")
	return &Service{provider: provider}, nil
}

// NewServiceWithProvider creates service with custom provider (for testing)
func NewServiceWithProvider(provider LLMProvider) *Service {
	return &Service{provider: provider}
}

// ResolveQuestion asks the provider to map a free-form question onto the
// structured resolution contract. The question's relative year phrases are
// normalized first.
func (s *Service) ResolveQuestion(ctx context.Context, question, windowTxt string) (*Resolution, error) {
	now := time.Now()
	normalized := NormalizeQuestionDates(question, now.Year())

	completion, err := s.provider.GenerateResponse(ctx, BuildResolverPrompt(windowTxt, now), "Question: "+normalized)
	if err != nil {
		return nil, fmt.Errorf("resolve question: %w", err)
	}

	var raw rawResolution
	if err := ExtractJSON(completion, &raw); err != nil {
		return nil, fmt.Errorf("resolve question: %w", err)
	}

	return &Resolution{
		Params:  raw.Params,
		Display: raw.Display,
		Viz:     raw.Viz,
		Notes:   raw.Notes,
	}, nil
}

// MakeInsight turns queried rows into a short textual answer.
func (s *Service) MakeInsight(ctx context.Context, in InsightInput) (string, error) {
	completion, err := s.provider.GenerateResponse(ctx, BuildInsightPrompt(in), in.Question)
	if err != nil {
		return "", fmt.Errorf("make insight: %w", err)
	}
	return completion, nil
}

// GetProviderName returns current provider name.
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
