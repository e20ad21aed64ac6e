package main

import (
	"context"
	"database/sql"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/config"
	"github.com/RikitaRoy3/Chatly/internal/handler"
	"github.com/RikitaRoy3/Chatly/internal/logging"
	"github.com/RikitaRoy3/Chatly/internal/notify"
	"github.com/RikitaRoy3/Chatly/internal/repository/mongo"
	"github.com/RikitaRoy3/Chatly/internal/repository/postgres"
	"github.com/RikitaRoy3/Chatly/internal/token"
)

// App is the main application container.
type App struct {
	Config  *config.Config
	Handler *handler.Handler
	Logger  *zap.Logger
}

func provideLogger(cfg *config.Config) (*zap.Logger, func()) {
	logger := logging.New(cfg.Debug)
	return logger, func() { logger.Sync() }
}

func provideTokenManager(cfg *config.Config) (*token.Manager, error) {
	return token.NewManager(cfg.JWTSecret)
}

func providePostgresDB(cfg *config.Config) (*sql.DB, func(), error) {
	if err := postgres.RunMigrations(cfg.PostgresURL, cfg.MigrationsURL); err != nil {
		return nil, nil, err
	}
	db, err := postgres.NewDB(cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Close() }
	return db, cleanup, nil
}

func provideMongoDB(ctx context.Context, cfg *config.Config) (*mongodriver.Database, func(), error) {
	db, err := mongo.NewDB(ctx, cfg.MongoURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Client().Disconnect(ctx) }
	return db, cleanup, nil
}

func provideContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() { cancel() }
}

func provideNotifier(cfg *config.Config, logger *zap.Logger) *notify.ResendNotifier {
	return notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailFromName, cfg.ClientURL, logger)
}
