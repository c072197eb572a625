package app

import (
	"github.com/nusratjahantasni/doshi-shop-style/internal/middleware"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

type Middleware struct {
	Session *middleware.SessionMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Session: middleware.NewSessionMiddleware(log, cfg.SecureCookies),
	}
}
