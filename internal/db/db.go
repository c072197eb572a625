package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
	"github.com/nusratjahantasni/doshi-shop-style/internal/utils"
)

type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabaseService opens the relational store backing the gorm persistence
// provider. provider is "postgres" or "sqlite".
func NewDatabaseService(log *logger.Logger, provider string) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	var dialector gorm.Dialector
	switch provider {
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "doshi_shop", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "doshi_shop.db", log)
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unknown database provider %q", provider)
	}

	serviceLog.Info("Connecting to database...", "provider", provider)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		serviceLog.Error("Failed to connect to database", "provider", provider, "error", err)
		return nil, fmt.Errorf("connect %s: %w", provider, err)
	}

	return &DatabaseService{db: gdb, log: serviceLog}, nil
}

func (s *DatabaseService) DB() *gorm.DB {
	return s.db
}
