package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/nusratjahantasni/doshi-shop-style/internal/handlers"
	"github.com/nusratjahantasni/doshi-shop-style/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AllowedOrigins    []string
	SessionMiddleware *middleware.SessionMiddleware
	CartHandler       *handlers.CartHandler
	ProductHandler    *handlers.ProductHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.SessionMiddleware.EnsureSession())
	{
		// Catalog reads
		api.GET("/products", cfg.ProductHandler.ListProducts)
		api.GET("/products/:handle", cfg.ProductHandler.GetProduct)

		// Cart
		api.GET("/cart", cfg.CartHandler.GetCart)
		api.POST("/cart/items", cfg.CartHandler.AddItem)
		api.PATCH("/cart/items/:variantId", cfg.CartHandler.UpdateQuantity)
		api.DELETE("/cart/items/:variantId", cfg.CartHandler.RemoveItem)
		api.GET("/cart/checkout-url", cfg.CartHandler.GetCheckoutURL)
	}

	return router
}
