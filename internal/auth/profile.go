package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"github.com/gin-gonic/gin"
)

const (
	HeaderProfileID = "profile_id"
	CtxProfile      = "profile"
	CtxProfileID    = "profile_id"
)

// WithProfile resolves the caller from the profile_id header and aborts with
// 401 when the header is missing, malformed or names no account.
func WithProfile(accounts repository.AccountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderProfileID))
		id, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   string(domain.KindUnauthorized),
				"message": "missing or invalid profile_id header",
			})
			return
		}

		profile, err := accounts.GetAccount(c.Request.Context(), id)
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   string(domain.KindUnauthorized),
				"message": "unknown profile",
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   string(domain.KindTransactionFailed),
				"message": "failed to load profile",
			})
			return
		}

		c.Set(CtxProfile, profile)
		c.Set(CtxProfileID, profile.ID)
		c.Next()
	}
}

// Profile returns the account resolved by WithProfile, or nil.
func Profile(c *gin.Context) *domain.Account {
	v, ok := c.Get(CtxProfile)
	if !ok {
		return nil
	}
	profile, _ := v.(*domain.Account)
	return profile
}
