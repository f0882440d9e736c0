package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *logger.Logger
}

func NewDashboardHandler(dashboardService service.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Invoice counts, revenue totals and plan usage for the caller
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.DashboardSummaryResponse
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	resp, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// StatusBreakdown godoc
// @Summary Invoice counts per status
// @Tags Dashboard
// @Produce json
// @Param start query string false "Range start (RFC 3339)"
// @Param end query string false "Range end (RFC 3339)"
// @Success 200 {object} map[string]int
// @Failure 400 {object} middleware.ErrorResponse
// @Router /dashboard/status-breakdown [get]
func (h *DashboardHandler) StatusBreakdown(c *gin.Context) {
	start, err := parseTimeQuery(c, "start")
	if err != nil {
		c.Error(err)
		return
	}
	end, err := parseTimeQuery(c, "end")
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.dashboardService.StatusBreakdown(c.Request.Context(), start, end)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MonthlyRevenue godoc
// @Summary Trailing twelve months of paid revenue
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.MonthlyRevenueResponse
// @Router /dashboard/revenue [get]
func (h *DashboardHandler) MonthlyRevenue(c *gin.Context) {
	resp, err := h.dashboardService.MonthlyRevenue(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseTimeQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("%s must be an RFC 3339 timestamp", name).
			Mark(ierr.ErrValidation)
	}
	return t.UTC(), nil
}
