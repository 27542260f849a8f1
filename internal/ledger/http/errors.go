package http

import (
	"errors"
	"net/http"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/logger"
	"github.com/contractpay/settlement-backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const kindBadRequest = "BadRequest"

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindJobNotFound, domain.KindContractNotFound, domain.KindNoData:
		return http.StatusNotFound
	case domain.KindInsufficientFunds, domain.KindInvalidAmount, domain.KindNoOutstandingBalance,
		domain.KindDepositLimitExceeded, domain.KindInvalidRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": kind, "message": ...} plus whatever
// context the typed error carries, and counts the outcome.
func (h *Handler) writeError(c *gin.Context, operation string, err error) {
	kind := domain.KindOf(err)
	metrics.RecordOutcome(operation, string(kind))

	body := gin.H{"error": string(kind), "message": err.Error()}

	var funds *domain.InsufficientFundsError
	var limit *domain.DepositLimitExceededError
	var failed *domain.TransactionFailedError
	switch {
	case errors.As(err, &funds):
		body["job_id"] = funds.JobID
		body["contract_id"] = funds.ContractID
		body["contractor_id"] = funds.ContractorID
		body["client_id"] = funds.ClientID
		body["price"] = funds.Price
		body["balance"] = funds.Balance
	case errors.As(err, &limit):
		body["deposit_amount"] = limit.Amount
		body["total_unpaid_balance"] = limit.TotalUnpaid
		body["max_deposit"] = limit.Cap
	case errors.As(err, &failed):
		body["message"] = "transaction failed"
		body["retryable"] = failed.Retryable
	}

	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		if failed == nil {
			body["message"] = "internal error"
		}
		logger.FromContext(c.Request.Context(), h.logger).Error("ledger request failed",
			zap.String("operation", operation),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": kindBadRequest, "message": message})
}
