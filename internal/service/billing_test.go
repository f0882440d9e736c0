package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"

	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/domain/user"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/testutil"
	"github.com/invixio/invixio/internal/types"
)

const testWebhookSecret = "whsec_test_secret"

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	cfg     *config.Configuration
	service BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	cfg := *s.GetConfig()
	cfg.Stripe.WebhookSecret = testWebhookSecret
	s.cfg = &cfg

	stores := s.GetStores()
	collab := s.GetCollaborators()
	s.service = NewBillingService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.cfg,
		DB:               testutil.NewMockPostgresClient(s.GetLogger()),
		InvoiceRepo:      stores.InvoiceRepo,
		UserRepo:         stores.UserRepo,
		SubscriptionRepo: stores.SubscriptionRepo,
		PDFGenerator:     collab.PDFGenerator,
		S3:               collab.Documents,
		Mailer:           collab.Mailer,
		Cache:            s.GetCache(),
		Client:           collab.HTTPClient,
	})
}

func (s *BillingServiceSuite) seedUserWithCustomer(customerID string) *user.User {
	u := &user.User{
		ID:         testutil.DefaultUserID,
		Email:      testutil.DefaultUserEmail,
		CustomerID: lo.ToPtr(customerID),
		Onboarded:  true,
		BaseModel:  types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetUserRepo().Create(s.GetContext(), u))
	return u
}

// sign produces a Stripe-Signature header value over the payload.
func (s *BillingServiceSuite) sign(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func (s *BillingServiceSuite) subscriptionEvent(eventType, subStatus string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"api_version": %q,
		"type": %q,
		"data": {
			"object": {
				"id": "sub_test_1",
				"status": %q,
				"customer": "cus_test_1",
				"items": {"data": [{"current_period_end": 1767225600}]}
			}
		}
	}`, stripe.APIVersion, eventType, subStatus))
}

func (s *BillingServiceSuite) TestCheckoutUnavailableWithoutCredentials() {
	// default config carries no secret key, so no client is constructed
	s.seedUserWithCustomer("cus_test_1")

	_, err := s.service.CreateCheckoutSession(s.GetContext())
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.CreateCustomerPortal(s.GetContext())
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *BillingServiceSuite) TestWebhookRejectsBadSignature() {
	payload := s.subscriptionEvent("customer.subscription.created", "active")

	err := s.service.HandleWebhookEvent(s.GetContext(), payload, "t=1,v1=deadbeef")
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	err = s.service.HandleWebhookEvent(s.GetContext(), payload, "")
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *BillingServiceSuite) TestWebhookMirrorsSubscription() {
	s.seedUserWithCustomer("cus_test_1")
	payload := s.subscriptionEvent("customer.subscription.created", "active")

	s.NoError(s.service.HandleWebhookEvent(s.GetContext(), payload, s.sign(payload)))

	sub, err := s.GetSubscriptionRepo().GetByUserID(s.GetContext(), testutil.DefaultUserID)
	s.NoError(err)
	s.Equal("sub_test_1", sub.StripeSubscriptionID)
	s.Equal(types.SubscriptionStatusActive, sub.PlanStatus)
	s.True(sub.IsActive())
	s.NotNil(sub.CurrentPeriodEnd)
}

func (s *BillingServiceSuite) TestWebhookUpdateDowngradesPlan() {
	s.seedUserWithCustomer("cus_test_1")

	created := s.subscriptionEvent("customer.subscription.created", "active")
	s.NoError(s.service.HandleWebhookEvent(s.GetContext(), created, s.sign(created)))

	updated := s.subscriptionEvent("customer.subscription.updated", "past_due")
	s.NoError(s.service.HandleWebhookEvent(s.GetContext(), updated, s.sign(updated)))

	sub, err := s.GetSubscriptionRepo().GetByUserID(s.GetContext(), testutil.DefaultUserID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusPastDue, sub.PlanStatus)
	s.False(sub.IsActive())
}

func (s *BillingServiceSuite) TestWebhookDeletionRemovesSubscription() {
	s.seedUserWithCustomer("cus_test_1")

	created := s.subscriptionEvent("customer.subscription.created", "active")
	s.NoError(s.service.HandleWebhookEvent(s.GetContext(), created, s.sign(created)))

	deleted := s.subscriptionEvent("customer.subscription.deleted", "canceled")
	s.NoError(s.service.HandleWebhookEvent(s.GetContext(), deleted, s.sign(deleted)))

	_, err := s.GetSubscriptionRepo().GetByUserID(s.GetContext(), testutil.DefaultUserID)
	s.Error(err)

	// deleting again stays quiet
	s.NoError(s.service.HandleWebhookEvent(s.GetContext(), deleted, s.sign(deleted)))
}

func (s *BillingServiceSuite) TestWebhookIgnoresUnknownEvents() {
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test_2",
		"api_version": %q,
		"type": "invoice.payment_succeeded",
		"data": {"object": {}}
	}`, stripe.APIVersion))

	s.NoError(s.service.HandleWebhookEvent(s.GetContext(), payload, s.sign(payload)))
}

func (s *BillingServiceSuite) TestWebhookUnknownCustomer() {
	payload := s.subscriptionEvent("customer.subscription.created", "active")

	err := s.service.HandleWebhookEvent(s.GetContext(), payload, s.sign(payload))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
