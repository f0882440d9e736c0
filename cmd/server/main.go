package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/invixio/invixio/internal/api"
	"github.com/invixio/invixio/internal/api/cron"
	v1 "github.com/invixio/invixio/internal/api/v1"
	"github.com/invixio/invixio/internal/cache"
	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/email"
	"github.com/invixio/invixio/internal/httpclient"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/pdf"
	"github.com/invixio/invixio/internal/postgres"
	"github.com/invixio/invixio/internal/repository"
	"github.com/invixio/invixio/internal/s3"
	"github.com/invixio/invixio/internal/sentry"
	"github.com/invixio/invixio/internal/service"
	"github.com/invixio/invixio/internal/typst"
	"github.com/invixio/invixio/internal/types"
)

// @title Invixio API
// @version 1.0
// @description Invoicing API for freelancers and small businesses
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func init() {
	// All date arithmetic happens in UTC
	time.Local = time.UTC
}

func main() {
	godotenv.Load()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,

			sentry.NewSentryService,
			provideCache,

			postgres.NewDB,
			postgres.NewClient,

			httpclient.NewDefaultClient,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewUserRepository,
			repository.NewSubscriptionRepository,

			// Document pipeline
			typst.NewCompiler,
			pdf.NewGenerator,
			s3.NewService,

			// Email
			email.NewEmailClient,
			email.NewEmail,
			email.NewInvoiceMailer,

			// Services
			service.NewServiceParams,
			service.NewInvoiceService,
			service.NewUserService,
			service.NewDashboardService,
			service.NewBillingService,
			service.NewLogoService,
			service.NewSweepService,

			// API
			v1.NewHealthHandler,
			v1.NewInvoiceHandler,
			v1.NewUserHandler,
			v1.NewDashboardHandler,
			v1.NewBillingHandler,
			v1.NewLogoHandler,
			cron.NewInvoiceHandler,
			api.NewHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startServer,
		),
	)

	app.Run()
}

func provideCache(log *logger.Logger) cache.Cache {
	return cache.Initialize(log)
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, cfg, log)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}
