package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/invixio/invixio/internal/cache"
	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/domain/user"
	"github.com/invixio/invixio/internal/logger"
)

// Stores holds the repository fakes shared by service tests
type Stores struct {
	InvoiceRepo      *InMemoryInvoiceStore
	UserRepo         *InMemoryUserStore
	SubscriptionRepo *InMemorySubscriptionStore
}

// Collaborators holds the side-effecting fakes shared by service tests
type Collaborators struct {
	PDFGenerator *MockPDFGenerator
	Mailer       *MockInvoiceMailer
	Documents    *InMemoryDocumentStore
	HTTPClient   *MockHTTPClient
}

// BaseServiceTestSuite provides common setup and teardown for service tests
type BaseServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	cfg           *config.Configuration
	logger        *logger.Logger
	stores        Stores
	collaborators Collaborators
	cacheStore    cache.Cache
	now           time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.cfg = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	cache.Initialize(s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		InvoiceRepo:      NewInMemoryInvoiceStore(),
		UserRepo:         NewInMemoryUserStore(),
		SubscriptionRepo: NewInMemorySubscriptionStore(),
	}
	s.collaborators = Collaborators{
		PDFGenerator: NewMockPDFGenerator(),
		Mailer:       NewMockInvoiceMailer(),
		Documents:    NewInMemoryDocumentStore(),
		HTTPClient:   NewMockHTTPClient(),
	}
	// NewInMemoryCache hands back the process-wide instance, so entries left
	// by an earlier test must be flushed here
	s.cacheStore = cache.NewInMemoryCache()
	s.cacheStore.Flush(s.ctx)
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.InvoiceRepo.Clear()
	s.stores.UserRepo.Clear()
	s.stores.SubscriptionRepo.Clear()
	s.collaborators.PDFGenerator.Clear()
	s.collaborators.Mailer.Clear()
	s.collaborators.Documents.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetCollaborators() Collaborators {
	return s.collaborators
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cacheStore
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetInvoiceRepo exposes the invoice store with its concrete type
func (s *BaseServiceTestSuite) GetInvoiceRepo() invoice.Repository {
	return s.stores.InvoiceRepo
}

func (s *BaseServiceTestSuite) GetUserRepo() user.Repository {
	return s.stores.UserRepo
}

func (s *BaseServiceTestSuite) GetSubscriptionRepo() subscription.Repository {
	return s.stores.SubscriptionRepo
}
