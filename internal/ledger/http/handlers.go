package http

import (
	"net/http"
	"strconv"

	"github.com/contractpay/settlement-backend/internal/auth"
	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/logger"
	"github.com/contractpay/settlement-backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	opPayJob         = "pay_job"
	opDeposit        = "deposit"
	opBestProfession = "best_profession"
	opTopClients     = "top_clients"
	opContracts      = "contracts"
)

// GetContract returns one contract the caller is a party to
func (h *Handler) GetContract(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "contract id must be an integer")
		return
	}

	contract, err := h.contracts.GetContract(c.Request.Context(), auth.Profile(c), id)
	if err != nil {
		h.writeError(c, opContracts, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// ListContracts returns the caller's non-terminated contracts
func (h *Handler) ListContracts(c *gin.Context) {
	contracts, err := h.contracts.ListActiveContracts(c.Request.Context(), auth.Profile(c))
	if err != nil {
		h.writeError(c, opContracts, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// ListUnpaidJobs returns the caller's unpaid jobs on in-progress contracts
func (h *Handler) ListUnpaidJobs(c *gin.Context) {
	jobs, err := h.contracts.ListUnpaidJobs(c.Request.Context(), auth.Profile(c))
	if err != nil {
		h.writeError(c, opContracts, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// PayJob settles a job for the calling client
func (h *Handler) PayJob(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("job_id"), 10, 64)
	if err != nil {
		badRequest(c, "job id must be an integer")
		return
	}

	ctx := c.Request.Context()
	result, err := h.payer.PayJob(ctx, c.GetInt64(auth.CtxProfileID), jobID)
	if err != nil {
		h.writeError(c, opPayJob, err)
		return
	}
	metrics.RecordOutcome(opPayJob, string(domain.KindOK))

	if h.invalidator != nil {
		if err := h.invalidator.Invalidate(ctx); err != nil {
			logger.FromContext(ctx, h.logger).Warn("report cache invalidation failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, result)
}

// Deposit credits the calling client's balance
func (h *Handler) Deposit(c *gin.Context) {
	var body depositRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeError(c, opDeposit, domain.ErrInvalidAmount)
		return
	}
	if body.Amount == nil {
		h.writeError(c, opDeposit, domain.ErrInvalidAmount)
		return
	}

	result, err := h.depositor.Deposit(c.Request.Context(), c.GetInt64(auth.CtxProfileID), *body.Amount)
	if err != nil {
		h.writeError(c, opDeposit, err)
		return
	}
	metrics.RecordOutcome(opDeposit, string(domain.KindOK))
	c.JSON(http.StatusOK, result)
}

// BestProfession reports the highest earning profession in a window
func (h *Handler) BestProfession(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	w, err := domain.ParseWindow(start, end)
	if err != nil {
		h.writeError(c, opBestProfession, err)
		return
	}

	best, err := h.reports.BestProfession(c.Request.Context(), w)
	if err != nil {
		h.writeError(c, opBestProfession, err)
		return
	}
	metrics.RecordOutcome(opBestProfession, string(domain.KindOK))
	c.JSON(http.StatusOK, bestProfessionResponse{Start: start, End: end, BestProfession: best})
}

// BestClients reports the top paying clients in a window
func (h *Handler) BestClients(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	w, err := domain.ParseWindow(start, end)
	if err != nil {
		h.writeError(c, opTopClients, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
	}

	top, err := h.reports.TopClients(c.Request.Context(), w, limit)
	if err != nil {
		h.writeError(c, opTopClients, err)
		return
	}
	metrics.RecordOutcome(opTopClients, string(domain.KindOK))
	c.JSON(http.StatusOK, bestClientsResponse{Start: start, End: end, TopPayingClients: top})
}
