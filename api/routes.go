package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-sync/internal/handlers/v1/migration"
	"github.com/carson-networks/budget-sync/internal/handlers/v1/session"
	"github.com/carson-networks/budget-sync/internal/handlers/v1/status"
	"github.com/carson-networks/budget-sync/internal/handlers/v1/summary"
	"github.com/carson-networks/budget-sync/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-sync/internal/logging"
	"github.com/carson-networks/budget-sync/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
}

// Router builds the mux with every route registered.
func (r *Rest) Router() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Service.Session)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("budget-sync", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	svc := r.Service
	session.NewHandler(svc.Session, svc.Migration).Register(api)

	transaction.NewListTransactionsHandler(svc.Transaction).Register(api)
	transaction.NewCreateTransactionHandler(svc.Transaction).Register(api)
	transaction.NewUpdateTransactionHandler(svc.Transaction).Register(api)
	transaction.NewDeleteTransactionHandler(svc.Transaction).Register(api)
	transaction.NewSyncHandler(svc.Transaction).Register(api)

	migration.NewHandler(svc.Migration).Register(api)
	migration.NewLocalHandler(svc.Migration).Register(api)

	summary.NewHandler(svc.Summary, svc.Insights).Register(api)

	return mux
}

func (r *Rest) Serve() {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
