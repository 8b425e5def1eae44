package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carson-networks/budget-sync/internal/logging"
	"github.com/carson-networks/budget-sync/internal/repository"
)

// StatusBody reports liveness and the state of the live view.
type StatusBody struct {
	Status    string `json:"status"`
	SignedIn  bool   `json:"signedIn"`
	SyncState string `json:"syncState"`
	Size      int    `json:"size"`
	Error     string `json:"error,omitempty"`
}

type sessionProvider interface {
	Repository() (*repository.Repository, error)
}

type Handler struct {
	Session sessionProvider
}

func NewHandler(session sessionProvider) Handler {
	return Handler{Session: session}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	body := StatusBody{Status: "ok", SyncState: string(repository.StateUninitialized)}
	if repo, err := h.Session.Repository(); err == nil {
		status := repo.Status()
		body.SignedIn = true
		body.SyncState = string(status.State)
		body.Size = status.Size
		if status.Err != nil {
			body.Error = status.Err.Error()
		}
	}
	logData.AddData("syncState", body.SyncState)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(body)
}
