package apierror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/logging"
	"github.com/carson-networks/budget-sync/internal/migration"
	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/service"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{record.ErrNotAuthenticated, http.StatusUnauthorized},
		{record.ErrNotReady, http.StatusConflict},
		{migration.ErrInvalidTransition, http.StatusConflict},
		{fmt.Errorf("%w: bad kind", record.ErrInvalidRecord), http.StatusBadRequest},
		{&record.RemoteWriteError{Op: "delete", Err: record.ErrNotFound}, http.StatusNotFound},
		{migration.ErrNoBackup, http.StatusNotFound},
		{local.ErrMalformed, http.StatusConflict},
		{&record.RemoteWriteError{Op: "insert", Err: errors.New("timeout")}, http.StatusBadGateway},
		{&record.RemoteReadError{Op: "list", Err: errors.New("timeout")}, http.StatusBadGateway},
		{service.ErrInsightsDisabled, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: boom", service.ErrInsightsFailed), http.StatusBadGateway},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestFromService(t *testing.T) {
	logger, _ := test.NewNullLogger()
	logData := logging.NewLogData(logger)
	ctx := logging.WithLogData(context.Background(), logData)

	err := FromService(ctx, record.ErrNotReady, "repository is not ready")

	var statusErr huma.StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.GetStatus())
	assert.Contains(t, statusErr.Error(), "repository is not ready")
	assert.Equal(t, record.ErrNotReady.Error(), logData.Log().Data["error"])
}
