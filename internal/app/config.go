package app

import (
	"strings"

	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
	"github.com/nusratjahantasni/doshi-shop-style/internal/utils"
)

type Config struct {
	ServiceName         string
	Environment         string
	Version             string
	Port                string
	AllowedOrigins      []string
	SecureCookies       bool
	PersistenceProvider string
}

func LoadConfig(log *logger.Logger) Config {
	origins := utils.GetEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000", log)
	originList := []string{}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			originList = append(originList, o)
		}
	}

	environment := utils.GetEnv("APP_ENV", "development", log)

	return Config{
		ServiceName:         utils.GetEnv("SERVICE_NAME", "doshi-shop-backend", log),
		Environment:         environment,
		Version:             utils.GetEnv("SERVICE_VERSION", "dev", log),
		Port:                utils.GetEnv("PORT", "8080", log),
		AllowedOrigins:      originList,
		SecureCookies:       strings.EqualFold(environment, "production"),
		PersistenceProvider: strings.ToLower(utils.GetEnv("CART_PERSISTENCE_PROVIDER", "memory", log)),
	}
}
