package summary

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-sync/internal/handlers/apierror"
	"github.com/carson-networks/budget-sync/internal/logging"
	"github.com/carson-networks/budget-sync/internal/service"
)

type CategoryTotal struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type MonthTotal struct {
	Month   string `json:"month" doc:"YYYY-MM"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// SummaryBody carries amounts as decimal strings.
type SummaryBody struct {
	Count      int             `json:"count"`
	Income     string          `json:"income"`
	Expense    string          `json:"expense"`
	Balance    string          `json:"balance"`
	ByCategory []CategoryTotal `json:"byCategory"`
	ByMonth    []MonthTotal    `json:"byMonth"`
}

type SummaryOutput struct {
	Body SummaryBody
}

type InsightsInput struct {
	Body struct {
		Question string `json:"question,omitempty" maxLength:"500" doc:"Optional question about the summary"`
	}
}

type InsightsOutput struct {
	Body struct {
		Text string `json:"text"`
	}
}

type summaryService interface {
	Summary(ctx context.Context) (service.Summary, error)
}

type insightsService interface {
	Generate(ctx context.Context, question string) (string, error)
}

// Handler serves GET /v1/summary and POST /v1/insights.
type Handler struct {
	SummaryService  summaryService
	InsightsService insightsService
}

func NewHandler(summary summaryService, insights insightsService) *Handler {
	return &Handler{SummaryService: summary, InsightsService: insights}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/v1/summary",
		Summary:     "Summarize transactions",
		Description: "Totals of the signed-in user's live view, by category and by month.",
		Tags:        []string{"Summary"},
	}, h.summary)

	huma.Register(api, huma.Operation{
		OperationID: "generate-insights",
		Method:      http.MethodPost,
		Path:        "/v1/insights",
		Summary:     "Generate insights",
		Description: "Asks the configured language model about the summary. Returns 503 when none is configured.",
		Tags:        []string{"Summary"},
	}, h.insights)
}

func toSummaryBody(s service.Summary) SummaryBody {
	body := SummaryBody{
		Count:      s.Count,
		Income:     s.Income.StringFixed(2),
		Expense:    s.Expense.StringFixed(2),
		Balance:    s.Balance.StringFixed(2),
		ByCategory: make([]CategoryTotal, len(s.ByCategory)),
		ByMonth:    make([]MonthTotal, len(s.ByMonth)),
	}
	for i, c := range s.ByCategory {
		body.ByCategory[i] = CategoryTotal{Category: c.Category, Total: c.Total.StringFixed(2)}
	}
	for i, m := range s.ByMonth {
		body.ByMonth[i] = MonthTotal{Month: m.Month, Income: m.Income.StringFixed(2), Expense: m.Expense.StringFixed(2)}
	}
	return body
}

func (h *Handler) summary(ctx context.Context, _ *struct{}) (*SummaryOutput, error) {
	s, err := h.SummaryService.Summary(ctx)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to summarize transactions")
	}
	return &SummaryOutput{Body: toSummaryBody(s)}, nil
}

func (h *Handler) insights(ctx context.Context, input *InsightsInput) (*InsightsOutput, error) {
	logData := logging.GetLogData(ctx)
	if logData != nil {
		logData.AddData("hasQuestion", input.Body.Question != "")
		defer logData.AddTiming("generateDuration")()
	}

	text, err := h.InsightsService.Generate(ctx, input.Body.Question)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to generate insights")
	}

	out := &InsightsOutput{}
	out.Body.Text = text
	return out, nil
}
