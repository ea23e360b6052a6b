package providers

import (
	"github.com/samber/do/v2"
	"golang.org/x/text/language"

	"github.com/linkshelf/linkshelf/internal/config"
	"github.com/linkshelf/linkshelf/internal/events"
	"github.com/linkshelf/linkshelf/internal/logger"
	"github.com/linkshelf/linkshelf/internal/store"
	"github.com/linkshelf/linkshelf/internal/validation"
	"github.com/linkshelf/linkshelf/internal/view"
)

// BrokerHandle wraps the event broker with shutdown capability.
type BrokerHandle struct {
	*events.Broker
}

// Shutdown implements do.Shutdownable.
func (h *BrokerHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideBroker provides the broker every store emits to.
func ProvideBroker(i do.Injector) (*BrokerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return &BrokerHandle{Broker: events.NewBroker(log.Component("events"))}, nil
}

// ProvideValidator provides the input validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideViewBuilder provides the local filter and sort engine.
func ProvideViewBuilder(i do.Injector) (*view.Builder, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return view.NewBuilder(language.Make(cfg.Bookmarks.Locale)), nil
}

// ProvideAuthStore provides the session store, restored from the token slot.
func ProvideAuthStore(i do.Injector) (*store.AuthStore, error) {
	client := do.MustInvoke[*APIClientHandle](i)
	slot := do.MustInvoke[*TokenStoreHandle](i)
	broker := do.MustInvoke[*BrokerHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.NewAuthStore(client.Client, slot.Store, validate, broker.Broker, log.Logger)
}

// ProvideBookmarkStore provides the paginated bookmark store.
func ProvideBookmarkStore(i do.Injector) (*store.BookmarkStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*APIClientHandle](i)
	broker := do.MustInvoke[*BrokerHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.NewBookmarkStore(client.Client, validate, cfg.Bookmarks.PageSize, broker.Broker, log.Logger), nil
}

// ProvideLocalBookmarkStore provides the load-everything bookmark store.
func ProvideLocalBookmarkStore(i do.Injector) (*store.LocalBookmarkStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*APIClientHandle](i)
	views := do.MustInvoke[*view.Builder](i)
	broker := do.MustInvoke[*BrokerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.NewLocalBookmarkStore(client.Client, views, cfg.Bookmarks.PageSize, broker.Broker, log.Logger), nil
}

// ProvideCategoryStore provides the category store.
func ProvideCategoryStore(i do.Injector) (*store.CategoryStore, error) {
	client := do.MustInvoke[*APIClientHandle](i)
	broker := do.MustInvoke[*BrokerHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.NewCategoryStore(client.Client, validate, broker.Broker, log.Logger), nil
}

// ProvideTagStore provides the tag store.
func ProvideTagStore(i do.Injector) (*store.TagStore, error) {
	client := do.MustInvoke[*APIClientHandle](i)
	broker := do.MustInvoke[*BrokerHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.NewTagStore(client.Client, validate, broker.Broker, log.Logger), nil
}

// NotificationStoreHandle wraps the notification queue with shutdown capability.
type NotificationStoreHandle struct {
	*store.NotificationStore
}

// Shutdown implements do.Shutdownable.
func (h *NotificationStoreHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideNotificationStore provides the notification queue.
func ProvideNotificationStore(i do.Injector) (*NotificationStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	broker := do.MustInvoke[*BrokerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &NotificationStoreHandle{
		NotificationStore: store.NewNotificationStore(cfg.Notifications.TTL, broker.Broker, log.Logger),
	}, nil
}
