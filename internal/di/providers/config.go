// Package providers contains dependency injection providers for the linkshelf client.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/linkshelf/linkshelf/internal/config"
	"github.com/linkshelf/linkshelf/internal/logger"
)

// ProvideConfig loads the configuration, applying the command-line
// overrides registered in the container.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	overrides, err := do.Invoke[config.Overrides](i)
	if err != nil {
		overrides = config.Overrides{}
	}
	return config.Load(overrides)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("Starting linkshelf",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"api", cfg.API.BaseURL,
		"mode", cfg.Bookmarks.Mode,
	)

	return log, nil
}
