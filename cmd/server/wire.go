//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/RikitaRoy3/Chatly/internal/config"
	"github.com/RikitaRoy3/Chatly/internal/handler"
	"github.com/RikitaRoy3/Chatly/internal/hub"
	"github.com/RikitaRoy3/Chatly/internal/notify"
	"github.com/RikitaRoy3/Chatly/internal/repository/mongo"
	"github.com/RikitaRoy3/Chatly/internal/repository/postgres"
	"github.com/RikitaRoy3/Chatly/internal/service"
)

// InitializeApp creates a new application.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		// Infrastructure Providers
		wire.NewSet(
			provideContext,
			provideLogger,
			provideTokenManager,
			providePostgresDB,
			provideMongoDB,
		),
		// Repository Providers
		wire.NewSet(
			postgres.NewUserRepository,
			wire.Bind(new(service.IUserRepository), new(*postgres.UserRepository)),

			mongo.NewMessageRepository,
			wire.Bind(new(service.IMessageRepository), new(*mongo.MessageRepository)),
		),
		// Hub Providers
		wire.NewSet(
			hub.NewRegistry,
			hub.NewRouter,
			wire.Bind(new(service.IDeliverer), new(*hub.Router)),
		),
		// Collaborator Providers
		wire.NewSet(
			provideNotifier,
			wire.Bind(new(service.INotifier), new(*notify.ResendNotifier)),
		),
		// Service Providers
		wire.NewSet(
			service.NewUserService,
			wire.Bind(new(service.IUserService), new(*service.UserService)),

			service.NewMessageService,
			wire.Bind(new(service.IMessageService), new(*service.MessageService)),
		),
		// Handler Provider
		handler.NewHandler,
		// App Provider
		wire.NewSet(
			wire.Struct(new(App), "*"),
		),
	)
	return nil, nil, nil
}
