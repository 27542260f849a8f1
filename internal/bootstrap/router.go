package bootstrap

import (
	"database/sql"
	"time"

	"github.com/contractpay/settlement-backend/config"
	httpapi "github.com/contractpay/settlement-backend/internal/api/http"
	"github.com/contractpay/settlement-backend/internal/api/http/middleware"
	"github.com/contractpay/settlement-backend/internal/api/http/routes"
	"github.com/contractpay/settlement-backend/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Redis       *redis.Client
	Ledger      *Ledger
	Server      config.ServerConfig
	RateLimit   config.RateLimitConfig
	Logger      *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(dep.Server.AllowedOrigins)))

	var db httpapi.Pinger
	if dep.DB != nil {
		db = dep.DB
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, db, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	routes.RegisterV1(r, routes.V1Deps{
		Accounts:  dep.Ledger.Repo,
		Ledger:    dep.Ledger.Handler(dep.Logger),
		RateLimit: dep.RateLimit,
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "profile_id", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
