package service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-sync/internal/record"
	"github.com/carson-networks/budget-sync/internal/repository"
)

// SessionService tracks the signed-in user and owns the live repository for them.
type SessionService struct {
	// switchMu serializes sign-in and sign-out; mu only guards userID so lookups
	// never wait on a load.
	switchMu sync.Mutex
	mu       sync.Mutex
	userID   string
	repo     *repository.Repository
	logger   *logrus.Logger
}

func NewSessionService(repo *repository.Repository, logger *logrus.Logger) *SessionService {
	return &SessionService{repo: repo, logger: logger}
}

// CurrentUser returns the signed-in user id, if any.
func (s *SessionService) CurrentUser() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != ""
}

// SignIn makes userID the current user and loads their records. The user stays signed
// in when the load fails; the repository then reports the error until a refetch.
func (s *SessionService) SignIn(ctx context.Context, userID string) error {
	if userID == "" {
		return record.ErrNotAuthenticated
	}

	s.switchMu.Lock()
	defer s.switchMu.Unlock()

	s.mu.Lock()
	previous := s.userID
	s.userID = userID
	s.mu.Unlock()

	if previous != userID {
		s.logger.WithFields(logrus.Fields{
			"previousUserID": previous,
			"userID":         userID,
		}).Info("SessionService.SignIn")
	}
	return s.repo.Open(ctx, userID)
}

func (s *SessionService) SignOut() {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()

	s.mu.Lock()
	s.userID = ""
	s.mu.Unlock()
	s.repo.Close()
}

// Repository returns the live repository of the current user.
func (s *SessionService) Repository() (*repository.Repository, error) {
	if _, ok := s.CurrentUser(); !ok {
		return nil, record.ErrNotAuthenticated
	}
	return s.repo, nil
}
