package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nusratjahantasni/doshi-shop-style/internal/db"
	"github.com/nusratjahantasni/doshi-shop-style/internal/observability"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Services Services

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	var gdb *gorm.DB
	if cfg.PersistenceProvider == "postgres" || cfg.PersistenceProvider == "sqlite" {
		database, err := db.NewDatabaseService(log, cfg.PersistenceProvider)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init database: %w", err)
		}
		gdb = database.DB()
	}

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	serviceset, err := wireServices(log, cfg, gdb, clientset)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, clientset, serviceset)
	middleware := wireMiddleware(log, cfg)
	router := wireRouter(cfg, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           gdb,
		Router:       router,
		Cfg:          cfg,
		Clients:      clientset,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
