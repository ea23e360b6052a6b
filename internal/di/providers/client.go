package providers

import (
	"github.com/samber/do/v2"

	"github.com/linkshelf/linkshelf/internal/api"
	"github.com/linkshelf/linkshelf/internal/config"
	"github.com/linkshelf/linkshelf/internal/logger"
)

// APIClientHandle wraps the API client with shutdown capability.
type APIClientHandle struct {
	*api.Client
}

// Shutdown implements do.Shutdownable.
func (h *APIClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAPIClient provides the bookmark API client. The bearer token is
// read from the durable slot on every request, so it always matches what
// the auth store last persisted.
func ProvideAPIClient(i do.Injector) (*APIClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	slot := do.MustInvoke[*TokenStoreHandle](i)

	token := func() string {
		t, err := slot.Get()
		if err != nil {
			log.Warn("Failed to read access token", "error", err)
			return ""
		}
		return t
	}

	client := api.New(api.Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
		BreakerFailures:   cfg.API.BreakerFailures,
		BreakerCooldown:   cfg.API.BreakerCooldown,
	}, token, log.Component("api"))

	return &APIClientHandle{Client: client}, nil
}
