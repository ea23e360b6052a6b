// Package di provides dependency injection configuration for the linkshelf client.
package di

import (
	"github.com/samber/do/v2"

	"github.com/linkshelf/linkshelf/internal/config"
	"github.com/linkshelf/linkshelf/internal/di/providers"
	"github.com/linkshelf/linkshelf/internal/logger"
	"github.com/linkshelf/linkshelf/internal/store"
)

// NewContainer creates and configures the DI container with all providers.
// overrides carries command-line configuration.
func NewContainer(overrides config.Overrides) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, overrides)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage and transport
	do.Provide(injector, providers.ProvideTokenStore)
	do.Provide(injector, providers.ProvideAPIClient)

	// State
	do.Provide(injector, providers.ProvideBroker)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideViewBuilder)
	do.Provide(injector, providers.ProvideAuthStore)
	do.Provide(injector, providers.ProvideBookmarkStore)
	do.Provide(injector, providers.ProvideLocalBookmarkStore)
	do.Provide(injector, providers.ProvideCategoryStore)
	do.Provide(injector, providers.ProvideTagStore)
	do.Provide(injector, providers.ProvideNotificationStore)

	return injector
}

// Bootstrap initializes the services every command needs.
// This triggers lazy initialization so configuration and storage errors
// surface before any command runs.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.TokenStoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*store.AuthStore](injector); err != nil {
		return err
	}
	return nil
}
