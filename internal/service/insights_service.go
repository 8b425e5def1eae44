package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carson-networks/budget-sync/internal/insights"
)

var (
	// ErrInsightsDisabled is returned when no language model is configured.
	ErrInsightsDisabled = errors.New("insights are not configured")
	// ErrInsightsFailed wraps errors from the language model.
	ErrInsightsFailed = errors.New("insights request failed")
)

type InsightsService struct {
	summary   *SummaryService
	generator insights.IGenerator
}

func NewInsightsService(summary *SummaryService, generator insights.IGenerator) *InsightsService {
	return &InsightsService{summary: summary, generator: generator}
}

// Enabled reports whether a generator is configured.
func (s *InsightsService) Enabled() bool {
	return s.generator != nil
}

// Generate asks the model about the signed-in user's summary and returns its text as is.
func (s *InsightsService) Generate(ctx context.Context, question string) (string, error) {
	if !s.Enabled() {
		return "", ErrInsightsDisabled
	}

	summary, err := s.summary.Summary(ctx)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}
	text, err := s.generator.Generate(ctx, string(payload), question)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInsightsFailed, err)
	}
	return text, nil
}
