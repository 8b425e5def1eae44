package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-sync/api"
	"github.com/carson-networks/budget-sync/internal/config"
	"github.com/carson-networks/budget-sync/internal/insights"
	"github.com/carson-networks/budget-sync/internal/local"
	"github.com/carson-networks/budget-sync/internal/logging"
	"github.com/carson-networks/budget-sync/internal/operator"
	"github.com/carson-networks/budget-sync/internal/service"
	"github.com/carson-networks/budget-sync/internal/storage"
	"github.com/carson-networks/budget-sync/internal/storage/memory"
	"github.com/carson-networks/budget-sync/internal/storage/migrations"
)

func main() {
	logger := logging.SetupLogging()
	logger.Info("budget-sync starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logger.WithError(err).Warn("logging.SetLevel: keeping info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote, err := openStorage(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("openStorage")
		return
	}
	defer remote.Close()

	cache, err := local.OpenSQLiteCache(ctx, envConfig.LocalCachePath)
	if err != nil {
		logger.WithError(err).Fatal("local.OpenSQLiteCache")
		return
	}
	defer cache.Close()

	delegator := operator.NewOperatorDelegator(remote, envConfig.OperatorWorkers, logger)
	delegator.Start()
	defer delegator.Stop()

	var generator insights.IGenerator
	if envConfig.OpenAIAPIKey != "" {
		generator = insights.NewClient(envConfig.OpenAIAPIKey, envConfig.OpenAIBaseURL, envConfig.OpenAIModel)
	} else {
		logger.Info("OPENAI_API_KEY not set, insights disabled")
	}

	svc := service.NewService(remote, delegator, cache, generator, logger)
	defer svc.Session.SignOut()

	go func() {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.HTTPPort,
			Service: svc,
		}
		httpRest.Serve()
		stop()
	}()

	<-ctx.Done()
	logger.Info("budget-sync stopping")
}

func openStorage(ctx context.Context, env *config.Config, logger *logrus.Logger) (*storage.Storage, error) {
	if env.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		return storage.NewMemoryStorage(memory.NewStore()), nil
	}

	remote, err := storage.NewStorage(ctx, env, logger)
	if err != nil {
		return nil, err
	}
	pre, post, err := migrations.Up(remote.DB)
	if err != nil {
		_ = remote.Close()
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  pre,
		"postMigrationVersion": post,
	}).Info("Migration status")
	return remote, nil
}
