package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/linkshelf/linkshelf/internal/config"
	"github.com/linkshelf/linkshelf/internal/logger"
	"github.com/linkshelf/linkshelf/internal/tokens"
)

// TokenStoreHandle wraps the token database with shutdown capability.
type TokenStoreHandle struct {
	*tokens.Store
}

// Shutdown implements do.Shutdownable.
func (h *TokenStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideTokenStore opens the durable token slot under the data path.
func ProvideTokenStore(i do.Injector) (*TokenStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dir := filepath.Join(cfg.Storage.DataPath, "tokens")
	store, err := tokens.Open(dir, log.Component("tokens"))
	if err != nil {
		return nil, err
	}

	log.Debug("Token store opened", "path", dir)
	return &TokenStoreHandle{Store: store}, nil
}
