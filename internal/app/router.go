package app

import (
	"github.com/gin-gonic/gin"

	"github.com/nusratjahantasni/doshi-shop-style/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:       cfg.ServiceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		SessionMiddleware: middleware.Session,
		CartHandler:       handlers.Cart,
		ProductHandler:    handlers.Product,
	})
}
