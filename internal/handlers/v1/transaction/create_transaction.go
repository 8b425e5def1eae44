package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-sync/internal/handlers/apierror"
	"github.com/carson-networks/budget-sync/internal/logging"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	ID          string `json:"id,omitempty" doc:"Client supplied id, assigned by the store when empty"`
	Description string `json:"description" required:"true" doc:"Free text description"`
	Amount      string `json:"amount" required:"true" doc:"Non-negative decimal amount"`
	Category    string `json:"category,omitempty" doc:"Category label, defaults to uncategorized"`
	Type        string `json:"type" required:"true" enum:"income,expense" doc:"Income or expense"`
	Date        string `json:"date,omitempty" doc:"YYYY-MM-DD or RFC3339, defaults to today"`
}

type CreateTransactionInput struct {
	Body CreateTransactionBody
}

type CreateTransactionOutput struct {
	Status int `json:"status" doc:"HTTP status"`
	Body   Transaction
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, transaction service.Transaction) (service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Writes a transaction to the remote store and adds it to the front of the live view.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateTransactionInput(input *CreateTransactionInput) (service.Transaction, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	if amount.IsNegative() {
		return service.Transaction{}, huma.NewError(http.StatusBadRequest, "amount must not be negative")
	}

	tx := service.Transaction{
		ID:          input.Body.ID,
		Description: input.Body.Description,
		Amount:      amount,
		Category:    input.Body.Category,
		Kind:        record.Kind(input.Body.Type),
	}
	if input.Body.Date != "" {
		tx.Date, err = parseDate(input.Body.Date)
		if err != nil {
			return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
	}
	return tx, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	tx, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	logData := logging.GetLogData(ctx)
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	created, err := h.TransactionService.CreateTransaction(ctx, tx)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to create transaction")
	}

	return &CreateTransactionOutput{Status: http.StatusCreated, Body: fromService(created)}, nil
}
