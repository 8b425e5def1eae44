package apierror

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/logging"
	"github.com/carson-networks/budget-sync/internal/migration"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/service"
)

// Status returns the HTTP status a service error maps to.
func Status(err error) int {
	switch {
	case errors.Is(err, record.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, record.ErrNotFound), errors.Is(err, migration.ErrNoBackup):
		return http.StatusNotFound
	case errors.Is(err, record.ErrNotReady), errors.Is(err, migration.ErrInvalidTransition),
		errors.Is(err, local.ErrMalformed):
		return http.StatusConflict
	case errors.Is(err, record.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsightsDisabled):
		return http.StatusServiceUnavailable
	case record.IsRemoteWrite(err), record.IsRemoteRead(err), errors.Is(err, service.ErrInsightsFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromService converts a service error into a huma error and notes it on the
// request's LogData.
func FromService(ctx context.Context, err error, message string) error {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddError(err)
	}
	return huma.NewError(Status(err), message, err)
}
