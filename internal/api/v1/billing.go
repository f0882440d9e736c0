package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/service"
)

// maxWebhookBytes bounds webhook payload reads.
const maxWebhookBytes = 1 << 20

type BillingHandler struct {
	billingService service.BillingService
	logger         *logger.Logger
}

func NewBillingHandler(billingService service.BillingService, logger *logger.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// CreateCheckoutSession godoc
// @Summary Start a paid-plan checkout
// @Tags Billing
// @Produce json
// @Success 200 {object} dto.CreateCheckoutSessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /billing/checkout [post]
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	resp, err := h.billingService.CreateCheckoutSession(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to create checkout session", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateCustomerPortal godoc
// @Summary Open the hosted billing portal
// @Tags Billing
// @Produce json
// @Success 200 {object} dto.CustomerPortalResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /billing/portal [post]
func (h *BillingHandler) CreateCustomerPortal(c *gin.Context) {
	resp, err := h.billingService.CreateCustomerPortal(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleStripeWebhook godoc
// @Summary Stripe webhook receiver
// @Description Verifies the event signature and mirrors subscription changes
// @Tags Billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} middleware.ErrorResponse
// @Router /webhooks/stripe [post]
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("failed to read webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.billingService.HandleWebhookEvent(c.Request.Context(), payload, signature); err != nil {
		h.logger.Errorw("failed to process billing webhook", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
