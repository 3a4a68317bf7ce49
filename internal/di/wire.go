//go:build wireinject
// +build wireinject

package di

import (
	"TradeMind/pkg/config"
	"TradeMind/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideLogCollector,
		ProvideMetrics,
		ProvideCache,

		// Backend client
		ProvideBackend,

		// Core state and control
		ProvideFeedStore,
		ProvideConnectivity,
		ProvideDashboard,
		ProvideScheduler,

		// Delivery
		ProvideHub,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
