package app

import (
	"github.com/nusratjahantasni/doshi-shop-style/internal/handlers"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

type Handlers struct {
	Cart    *handlers.CartHandler
	Product *handlers.ProductHandler
}

func wireHandlers(log *logger.Logger, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Cart:    handlers.NewCartHandler(log, services.Carts),
		Product: handlers.NewProductHandler(log, clients.Shopify),
	}
}
