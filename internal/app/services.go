package app

import (
	"gorm.io/gorm"

	"github.com/nusratjahantasni/doshi-shop-style/internal/cart"
	"github.com/nusratjahantasni/doshi-shop-style/internal/persistence"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

type Services struct {
	Persistence persistence.Adapter
	Carts       *cart.Registry
}

func wireServices(log *logger.Logger, cfg Config, db *gorm.DB, clients Clients) (Services, error) {
	log.Info("Wiring services...", "persistence_provider", cfg.PersistenceProvider)

	adapter, err := persistence.New(log, db, cfg.PersistenceProvider)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Persistence: adapter,
		Carts:       cart.NewRegistry(log, clients.Shopify, adapter),
	}, nil
}
