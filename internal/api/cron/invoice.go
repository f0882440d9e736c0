package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/service"
)

// InvoiceHandler handles invoice related cron jobs
type InvoiceHandler struct {
	sweepService service.SweepService
	logger       *logger.Logger
}

func NewInvoiceHandler(sweepService service.SweepService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		sweepService: sweepService,
		logger:       logger,
	}
}

// RunOverdueSweep moves past-due pending invoices to overdue. The sweep is
// idempotent, so the external scheduler may retry freely.
func (h *InvoiceHandler) RunOverdueSweep(c *gin.Context) {
	h.logger.Infow("starting overdue sweep cron job")

	result, err := h.sweepService.RunOverdueSweep(c.Request.Context())
	if err != nil {
		h.logger.Errorw("overdue sweep failed", "error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed overdue sweep cron job",
		"scanned", result.Scanned,
		"transitioned", result.Transitioned,
		"failed", result.Failed)
	c.JSON(http.StatusOK, result)
}
