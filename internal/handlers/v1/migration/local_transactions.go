package migration

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-sync/internal/handlers/apierror"
	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/record"
)

// LocalTransaction is a record staged on this device.
type LocalTransaction struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Amount      string `json:"amount" doc:"Non-negative decimal amount"`
	Category    string `json:"category,omitempty"`
	Type        string `json:"type" enum:"income,expense"`
	Date        string `json:"date,omitempty" doc:"YYYY-MM-DD or RFC3339, defaults to today"`
}

type LocalTransactionsOutput struct {
	Body struct {
		Transactions []LocalTransaction `json:"transactions"`
	}
}

type StageInput struct {
	Body LocalTransaction
}

type StageOutput struct {
	Body LocalTransaction
}

type localService interface {
	LocalTransactions(ctx context.Context) ([]local.LocalRecord, error)
	StageTransaction(ctx context.Context, r local.LocalRecord) (local.LocalRecord, error)
	ClearLocalData(ctx context.Context) error
}

// LocalHandler serves /v1/local/transactions.
type LocalHandler struct {
	MigrationService localService
}

func NewLocalHandler(svc localService) *LocalHandler {
	return &LocalHandler{MigrationService: svc}
}

func (h *LocalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-local-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/local/transactions",
		Summary:     "List staged transactions",
		Description: "Returns the records staged on this device. A corrupt payload reads as empty.",
		Tags:        []string{"Local"},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID:   "stage-local-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/local/transactions",
		Summary:       "Stage transaction",
		Description:   "Keeps a transaction on this device until it is migrated.",
		Tags:          []string{"Local"},
		DefaultStatus: http.StatusCreated,
	}, h.stage)

	huma.Register(api, huma.Operation{
		OperationID:   "clear-local-transactions",
		Method:        http.MethodDelete,
		Path:          "/v1/local/transactions",
		Summary:       "Clear staged transactions",
		Description:   "Deletes the staged payload and the migration state. Backups are kept.",
		Tags:          []string{"Local"},
		DefaultStatus: http.StatusNoContent,
	}, h.clear)
}

func toLocalTransaction(r local.LocalRecord) LocalTransaction {
	return LocalTransaction{
		ID:          r.ID,
		Description: r.Description,
		Amount:      r.Amount.String(),
		Category:    r.Category,
		Type:        string(r.Type),
		Date:        r.Date,
	}
}

func parseStageInput(input *StageInput) (local.LocalRecord, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return local.LocalRecord{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	return local.LocalRecord{
		ID:          input.Body.ID,
		Description: input.Body.Description,
		Amount:      amount,
		Category:    input.Body.Category,
		Type:        record.Kind(input.Body.Type),
		Date:        input.Body.Date,
	}, nil
}

func (h *LocalHandler) list(ctx context.Context, _ *struct{}) (*LocalTransactionsOutput, error) {
	records, err := h.MigrationService.LocalTransactions(ctx)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to read local transactions")
	}

	out := &LocalTransactionsOutput{}
	out.Body.Transactions = make([]LocalTransaction, len(records))
	for i, r := range records {
		out.Body.Transactions[i] = toLocalTransaction(r)
	}
	return out, nil
}

func (h *LocalHandler) stage(ctx context.Context, input *StageInput) (*StageOutput, error) {
	r, err := parseStageInput(input)
	if err != nil {
		return nil, err
	}

	staged, err := h.MigrationService.StageTransaction(ctx, r)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to stage transaction")
	}
	return &StageOutput{Body: toLocalTransaction(staged)}, nil
}

func (h *LocalHandler) clear(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if err := h.MigrationService.ClearLocalData(ctx); err != nil {
		return nil, apierror.FromService(ctx, err, "failed to clear local transactions")
	}
	return nil, nil
}
