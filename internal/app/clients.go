package app

import (
	"github.com/nusratjahantasni/doshi-shop-style/internal/clients/shopify"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

type Clients struct {
	Shopify shopify.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")
	shopifyClient, err := shopify.NewClient(log)
	if err != nil {
		return Clients{}, err
	}
	return Clients{Shopify: shopifyClient}, nil
}
