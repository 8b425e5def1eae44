package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/service"
)

type mockSummaryService struct {
	mock.Mock
}

func (m *mockSummaryService) Summary(ctx context.Context) (service.Summary, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(service.Summary)
	return s, args.Error(1)
}

type mockInsightsService struct {
	mock.Mock
}

func (m *mockInsightsService) Generate(ctx context.Context, question string) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

func newTestAPI(t *testing.T, summary *mockSummaryService, insights *mockInsightsService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(summary, insights).Register(api)
	return api
}

func TestGetSummary(t *testing.T) {
	summary := new(mockSummaryService)
	summary.On("Summary", mock.Anything).Return(service.Summary{
		Count:   2,
		Income:  decimal.NewFromInt(100),
		Expense: decimal.RequireFromString("3.5"),
		Balance: decimal.RequireFromString("96.5"),
		ByCategory: []service.CategoryTotal{
			{Category: "food", Total: decimal.RequireFromString("3.5")},
		},
		ByMonth: []service.MonthTotal{
			{Month: "2024-01", Income: decimal.NewFromInt(100), Expense: decimal.RequireFromString("3.5")},
		},
	}, nil)

	resp := newTestAPI(t, summary, new(mockInsightsService)).Get("/v1/summary")
	require.Equal(t, http.StatusOK, resp.Code)

	var body SummaryBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, SummaryBody{
		Count:      2,
		Income:     "100.00",
		Expense:    "3.50",
		Balance:    "96.50",
		ByCategory: []CategoryTotal{{Category: "food", Total: "3.50"}},
		ByMonth:    []MonthTotal{{Month: "2024-01", Income: "100.00", Expense: "3.50"}},
	}, body)
}

func TestGetSummary_NotSignedIn(t *testing.T) {
	summary := new(mockSummaryService)
	summary.On("Summary", mock.Anything).Return(nil, record.ErrNotAuthenticated)

	resp := newTestAPI(t, summary, new(mockInsightsService)).Get("/v1/summary")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestInsights(t *testing.T) {
	insights := new(mockInsightsService)
	insights.On("Generate", mock.Anything, "Where does my money go?").Return("Mostly **food**.", nil)

	resp := newTestAPI(t, new(mockSummaryService), insights).Post("/v1/insights", map[string]any{
		"question": "Where does my money go?",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Mostly **food**.", body.Text)
}

func TestInsights_WithoutQuestion(t *testing.T) {
	insights := new(mockInsightsService)
	insights.On("Generate", mock.Anything, "").Return("ok", nil)

	resp := newTestAPI(t, new(mockSummaryService), insights).Post("/v1/insights", map[string]any{})
	assert.Equal(t, http.StatusOK, resp.Code)
	insights.AssertExpectations(t)
}

func TestInsights_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "disabled", err: service.ErrInsightsDisabled, want: http.StatusServiceUnavailable},
		{name: "upstream failure", err: errors.Join(service.ErrInsightsFailed, errors.New("429")), want: http.StatusBadGateway},
		{name: "not signed in", err: record.ErrNotAuthenticated, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := new(mockInsightsService)
			insights.On("Generate", mock.Anything, "").Return("", tt.err)

			resp := newTestAPI(t, new(mockSummaryService), insights).Post("/v1/insights", map[string]any{})
			assert.Equal(t, tt.want, resp.Code)
		})
	}
}
