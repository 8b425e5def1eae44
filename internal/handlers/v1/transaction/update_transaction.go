package transaction

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-sync/internal/handlers/apierror"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/service"
)

// UpdateTransactionBody lists the fields to change. Absent fields are left as they are.
type UpdateTransactionBody struct {
	Description *string `json:"description,omitempty"`
	Amount      *string `json:"amount,omitempty" doc:"Non-negative decimal amount"`
	Category    *string `json:"category,omitempty" doc:"Empty resets to uncategorized"`
	Type        *string `json:"type,omitempty" enum:"income,expense"`
	Date        *string `json:"date,omitempty" doc:"YYYY-MM-DD or RFC3339"`
}

type UpdateTransactionInput struct {
	ID   string `path:"id" doc:"Transaction id"`
	Body UpdateTransactionBody
}

type UpdateTransactionOutput struct {
	Body Transaction
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, id string, patch record.Patch) (service.Transaction, error)
}

// UpdateTransactionHandler handles PATCH /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Patches one of the signed-in user's transactions. The view entry keeps its position.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseUpdateTransactionInput(input *UpdateTransactionInput) (record.Patch, error) {
	var patch record.Patch
	body := input.Body

	if body.Description != nil {
		patch.Description = omit.From(*body.Description)
	}
	if body.Amount != nil {
		amount, err := decimal.NewFromString(*body.Amount)
		if err != nil {
			return record.Patch{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
		}
		patch.Amount = omit.From(amount)
	}
	if body.Category != nil {
		patch.Category = omit.From(*body.Category)
	}
	if body.Type != nil {
		patch.Kind = omit.From(record.Kind(*body.Type))
	}
	if body.Date != nil {
		date, err := parseDate(*body.Date)
		if err != nil {
			return record.Patch{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		patch.Date = omit.From(date)
	}

	if patch.IsEmpty() {
		return record.Patch{}, huma.NewError(http.StatusBadRequest, "no fields to update")
	}
	return patch, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	patch, err := parseUpdateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	updated, err := h.TransactionService.UpdateTransaction(ctx, input.ID, patch)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to update transaction")
	}
	return &UpdateTransactionOutput{Body: fromService(updated)}, nil
}
