package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-sync/internal/handlers/apierror"
	"github.com/carson-networks/budget-sync/internal/service"
)

// SyncStatusBody describes the live view.
type SyncStatusBody struct {
	State   string `json:"state" enum:"uninitialized,loading,ready,error"`
	OwnerID string `json:"ownerId,omitempty"`
	Error   string `json:"error,omitempty" doc:"Last fetch or subscription error"`
	Size    int    `json:"size" doc:"Number of transactions in the view"`
}

type SyncStatusOutput struct {
	Body SyncStatusBody
}

type syncController interface {
	Status(ctx context.Context) (service.SyncStatus, error)
	Refetch(ctx context.Context) (service.SyncStatus, error)
}

// SyncHandler serves GET /v1/transactions/status and POST /v1/transactions/refetch.
type SyncHandler struct {
	TransactionService syncController
}

func NewSyncHandler(svc syncController) *SyncHandler {
	return &SyncHandler{TransactionService: svc}
}

func (h *SyncHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-sync-status",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/status",
		Summary:     "Sync status",
		Description: "Reports whether the live view is loading, ready or failed.",
		Tags:        []string{"Transactions"},
	}, h.status)

	huma.Register(api, huma.Operation{
		OperationID: "refetch-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transactions/refetch",
		Summary:     "Refetch transactions",
		Description: "Discards the live view and reloads it from the remote store.",
		Tags:        []string{"Transactions"},
	}, h.refetch)
}

func toSyncStatusBody(status service.SyncStatus) SyncStatusBody {
	return SyncStatusBody{
		State:   string(status.State),
		OwnerID: status.OwnerID,
		Error:   status.Error,
		Size:    status.Size,
	}
}

func (h *SyncHandler) status(ctx context.Context, _ *struct{}) (*SyncStatusOutput, error) {
	status, err := h.TransactionService.Status(ctx)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to read sync status")
	}
	return &SyncStatusOutput{Body: toSyncStatusBody(status)}, nil
}

func (h *SyncHandler) refetch(ctx context.Context, _ *struct{}) (*SyncStatusOutput, error) {
	status, err := h.TransactionService.Refetch(ctx)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to refetch transactions")
	}
	return &SyncStatusOutput{Body: toSyncStatusBody(status)}, nil
}
