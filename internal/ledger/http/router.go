package http

import "github.com/gin-gonic/gin"

// Register registers the ledger routes. writeGuards run before the handlers
// that move money.
func (h *Handler) Register(rg *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	rg.GET("/contracts", h.ListContracts)
	rg.GET("/contracts/:id", h.GetContract)
	rg.GET("/jobs/unpaid", h.ListUnpaidJobs)

	rg.POST("/jobs/:job_id/pay", guarded(writeGuards, h.PayJob)...)
	rg.POST("/balances/deposit", guarded(writeGuards, h.Deposit)...)

	admin := rg.Group("/admin")
	admin.GET("/best-profession", h.BestProfession)
	admin.GET("/best-clients", h.BestClients)
}

func guarded(guards []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, handler)
}
