package routes

import (
	"github.com/contractpay/settlement-backend/config"
	"github.com/contractpay/settlement-backend/internal/api/http/middleware"
	"github.com/contractpay/settlement-backend/internal/auth"
	ledgerhttp "github.com/contractpay/settlement-backend/internal/ledger/http"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"github.com/gin-gonic/gin"
)

type V1Deps struct {
	Accounts  repository.AccountStore
	Ledger    *ledgerhttp.Handler
	RateLimit config.RateLimitConfig
}

// RegisterV1 mounts the profile-scoped ledger API under /api/v1.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(auth.WithProfile(dep.Accounts))

	dep.Ledger.Register(api, middleware.RateLimit(dep.RateLimit.RPS, dep.RateLimit.Burst, auth.CtxProfileID))
}
