package api

import (
	"github.com/gin-gonic/gin"

	"github.com/invixio/invixio/internal/api/cron"
	v1 "github.com/invixio/invixio/internal/api/v1"
	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/rest/middleware"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Invoice   *v1.InvoiceHandler
	User      *v1.UserHandler
	Dashboard *v1.DashboardHandler
	Billing   *v1.BillingHandler
	Logo      *v1.LogoHandler

	CronInvoice *cron.InvoiceHandler
}

func NewHandlers(
	health *v1.HealthHandler,
	invoice *v1.InvoiceHandler,
	user *v1.UserHandler,
	dashboard *v1.DashboardHandler,
	billing *v1.BillingHandler,
	logo *v1.LogoHandler,
	cronInvoice *cron.InvoiceHandler,
) Handlers {
	return Handlers{
		Health:      health,
		Invoice:     invoice,
		User:        user,
		Dashboard:   dashboard,
		Billing:     billing,
		Logo:        logo,
		CronInvoice: cronInvoice,
	}
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(cfg),
	)
	router.Use(middleware.SentryMiddleware(cfg)...)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")

	// Webhooks authenticate by signature, not by bearer token
	v1Group.POST("/webhooks/stripe", handlers.Billing.HandleStripeWebhook)

	cronGroup := v1Group.Group("/cron")
	cronGroup.Use(middleware.CronAuthMiddleware(cfg))
	{
		cronGroup.POST("/invoices/overdue", handlers.CronInvoice.RunOverdueSweep)
	}

	private := v1Group.Group("")
	private.Use(middleware.AuthenticateMiddleware(cfg, log))
	registerPrivateRoutes(private, handlers)

	return router
}

func registerPrivateRoutes(router *gin.RouterGroup, handlers Handlers) {
	router.POST("/onboarding", handlers.User.Onboard)

	users := router.Group("/users")
	{
		users.GET("/me", handlers.User.GetProfile)
		users.PUT("/me", handlers.User.UpdateCompanyInfo)
	}

	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.POST("/preview", handlers.Invoice.PreviewInvoice)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
		invoices.POST("/:id/pay", handlers.Invoice.MarkInvoicePaid)
		invoices.POST("/:id/unpay", handlers.Invoice.MarkInvoiceUnpaid)
		invoices.POST("/:id/cancel", handlers.Invoice.CancelInvoice)
		invoices.POST("/:id/remind", handlers.Invoice.SendReminder)
		invoices.GET("/:id/download", handlers.Invoice.DownloadInvoice)
	}

	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/summary", handlers.Dashboard.Summary)
		dashboard.GET("/status-breakdown", handlers.Dashboard.StatusBreakdown)
		dashboard.GET("/revenue", handlers.Dashboard.MonthlyRevenue)
	}

	billing := router.Group("/billing")
	{
		billing.POST("/checkout", handlers.Billing.CreateCheckoutSession)
		billing.POST("/portal", handlers.Billing.CreateCustomerPortal)
	}

	logos := router.Group("/logos")
	{
		logos.POST("", handlers.Logo.UploadLogo)
		logos.DELETE("/:key", handlers.Logo.DeleteLogo)
	}
}
