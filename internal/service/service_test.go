package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/carson-networks/budget-sync/internal/insights"
	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/operator"
	"github.com/carson-networks/budget-sync/internal/storage"
	"github.com/carson-networks/budget-sync/internal/storage/memory"
)

type testEnv struct {
	svc   *Service
	store *memory.Store
	cache *local.MemoryCache
}

func newTestService(t *testing.T, generator insights.IGenerator) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := memory.NewStore()
	cache := local.NewMemoryCache()
	s := storage.NewMemoryStorage(store)

	delegator := operator.NewOperatorDelegator(s, 1, logger)
	delegator.Start()

	svc := NewService(s, delegator, cache, generator, logger)
	t.Cleanup(func() {
		svc.Session.SignOut()
		delegator.Stop()
	})
	return &testEnv{svc: svc, store: store, cache: cache}
}

func (e *testEnv) signIn(t *testing.T, userID string) {
	t.Helper()
	if err := e.svc.Session.SignIn(context.Background(), userID); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
}
