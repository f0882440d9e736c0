package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/invixio/invixio/internal/api/cron"
	v1 "github.com/invixio/invixio/internal/api/v1"
	"github.com/invixio/invixio/internal/cache"
	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/service"
	"github.com/invixio/invixio/internal/testutil"
	"github.com/invixio/invixio/internal/types"
)

// newTestRouter assembles the router through the same constructors the
// application wires together at startup.
func newTestRouter(t *testing.T, cfg *config.Configuration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)

	params := service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		DB:               testutil.NewMockPostgresClient(log),
		InvoiceRepo:      testutil.NewInMemoryInvoiceStore(),
		UserRepo:         testutil.NewInMemoryUserStore(),
		SubscriptionRepo: testutil.NewInMemorySubscriptionStore(),
		PDFGenerator:     testutil.NewMockPDFGenerator(),
		S3:               testutil.NewInMemoryDocumentStore(),
		Mailer:           testutil.NewMockInvoiceMailer(),
		Cache:            cache.Initialize(log),
		Client:           testutil.NewMockHTTPClient(),
	}

	handlers := NewHandlers(
		v1.NewHealthHandler(log),
		v1.NewInvoiceHandler(service.NewInvoiceService(params), log),
		v1.NewUserHandler(service.NewUserService(params), log),
		v1.NewDashboardHandler(service.NewDashboardService(params), log),
		v1.NewBillingHandler(service.NewBillingService(params), log),
		v1.NewLogoHandler(service.NewLogoService(params), log),
		cron.NewInvoiceHandler(service.NewSweepService(params), log),
	)
	return NewRouter(handlers, cfg, log)
}

func TestRouterServesHealth(t *testing.T) {
	r := newTestRouter(t, config.GetDefaultConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterRequiresBearerToken(t *testing.T) {
	r := newTestRouter(t, config.GetDefaultConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/invoices", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterCronGuardedBySecret(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Cron.Secret = "cron-secret"
	r := newTestRouter(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/cron/invoices/overdue", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/cron/invoices/overdue", nil)
	req.Header.Set(types.HeaderCronSecret, "cron-secret")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
