package session

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-sync/internal/handlers/apierror"
	"github.com/carson-networks/budget-sync/internal/logging"
)

// SessionBody is the current identity of this device.
type SessionBody struct {
	SignedIn bool   `json:"signedIn"`
	UserID   string `json:"userId,omitempty"`
	// MigrationPending is true when staged local records are waiting to be migrated.
	MigrationPending bool `json:"migrationPending"`
}

type SessionOutput struct {
	Body SessionBody
}

type SignInBody struct {
	UserID string `json:"userId" required:"true" minLength:"1" doc:"Stable id of the authenticated user"`
}

type SignInInput struct {
	Body SignInBody
}

type sessionService interface {
	CurrentUser() (string, bool)
	SignIn(ctx context.Context, userID string) error
	SignOut()
}

type pendingChecker interface {
	CheckPending(ctx context.Context) (bool, error)
}

// Handler serves GET, POST and DELETE /v1/session.
type Handler struct {
	Session   sessionService
	Migration pendingChecker
}

func NewHandler(session sessionService, migration pendingChecker) *Handler {
	return &Handler{Session: session, Migration: migration}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/v1/session",
		Summary:     "Current session",
		Tags:        []string{"Session"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "sign-in",
		Method:      http.MethodPost,
		Path:        "/v1/session",
		Summary:     "Sign in",
		Description: "Makes the user current and loads their transactions. The response says whether local data awaits migration.",
		Tags:        []string{"Session"},
	}, h.signIn)

	huma.Register(api, huma.Operation{
		OperationID:   "sign-out",
		Method:        http.MethodDelete,
		Path:          "/v1/session",
		Summary:       "Sign out",
		Description:   "Closes the change subscription and clears the live view.",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusNoContent,
	}, h.signOut)
}

func (h *Handler) current(ctx context.Context) (*SessionOutput, error) {
	userID, ok := h.Session.CurrentUser()
	pending, err := h.Migration.CheckPending(ctx)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "failed to check local data")
	}
	return &SessionOutput{Body: SessionBody{
		SignedIn:         ok,
		UserID:           userID,
		MigrationPending: ok && pending,
	}}, nil
}

func (h *Handler) get(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	return h.current(ctx)
}

func (h *Handler) signIn(ctx context.Context, input *SignInInput) (*SessionOutput, error) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userID", input.Body.UserID)
	}

	if err := h.Session.SignIn(ctx, input.Body.UserID); err != nil {
		return nil, apierror.FromService(ctx, err, "failed to sign in")
	}
	return h.current(ctx)
}

func (h *Handler) signOut(_ context.Context, _ *struct{}) (*struct{}, error) {
	h.Session.SignOut()
	return nil, nil
}
