package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/domain/user"
	"github.com/invixio/invixio/internal/dto"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/types"
)

// BillingService manages the paid-plan lifecycle through Stripe. Checkout and
// the customer portal are hosted by Stripe; the local subscription row is a
// mirror kept current by webhook events.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context) (*dto.CreateCheckoutSessionResponse, error)
	CreateCustomerPortal(ctx context.Context) (*dto.CustomerPortalResponse, error)
	HandleWebhookEvent(ctx context.Context, payload []byte, signature string) error
}

type billingService struct {
	ServiceParams
	stripeClient *stripe.Client
}

func NewBillingService(params ServiceParams) BillingService {
	var client *stripe.Client
	if params.Config.Stripe.SecretKey != "" {
		client = stripe.NewClient(params.Config.Stripe.SecretKey, nil)
	}
	return &billingService{
		ServiceParams: params,
		stripeClient:  client,
	}
}

func (s *billingService) CreateCheckoutSession(ctx context.Context) (*dto.CreateCheckoutSessionResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}
	if s.stripeClient == nil {
		return nil, s.billingDisabledErr()
	}

	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, wrapUserNotFound(err)
	}

	sub, err := s.SubscriptionRepo.GetByUserID(ctx, userID)
	if err != nil && !stderrors.Is(err, subscription.ErrSubscriptionNotFound) {
		return nil, err
	}
	if sub.IsActive() {
		return nil, ierr.NewError("subscription already active").
			WithHint("You are already on the paid plan").
			Mark(ierr.ErrInvalidOperation)
	}

	customerID, err := s.ensureCustomer(ctx, u)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionCreateParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(s.Config.Stripe.ProPlanPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.Config.Stripe.SuccessURL),
		CancelURL:  stripe.String(s.Config.Stripe.CancelURL),
		Metadata: map[string]string{
			"user_id": u.ID,
		},
	}

	session, err := s.stripeClient.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		s.Logger.Errorw("failed to create checkout session",
			"error", err,
			"user_id", u.ID)
		return nil, ierr.NewError("failed to create checkout session").
			WithHint("Unable to start checkout, please try again").
			Mark(ierr.ErrHTTPClient)
	}

	return &dto.CreateCheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

func (s *billingService) CreateCustomerPortal(ctx context.Context) (*dto.CustomerPortalResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}
	if s.stripeClient == nil {
		return nil, s.billingDisabledErr()
	}

	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, wrapUserNotFound(err)
	}
	if u.CustomerID == nil {
		return nil, ierr.NewError("no billing account").
			WithHint("Subscribe to a plan before opening the billing portal").
			Mark(ierr.ErrInvalidOperation)
	}

	params := &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(*u.CustomerID),
		ReturnURL: stripe.String(s.Config.Stripe.SuccessURL),
	}
	session, err := s.stripeClient.V1BillingPortalSessions.Create(ctx, params)
	if err != nil {
		s.Logger.Errorw("failed to create billing portal session",
			"error", err,
			"user_id", u.ID)
		return nil, ierr.NewError("failed to open billing portal").
			WithHint("Unable to open the billing portal, please try again").
			Mark(ierr.ErrHTTPClient)
	}

	return &dto.CustomerPortalResponse{URL: session.URL}, nil
}

// HandleWebhookEvent verifies the event signature and mirrors subscription
// state changes into the local row. Unrecognised event types are accepted and
// ignored so Stripe does not retry them.
func (s *billingService) HandleWebhookEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.Config.Stripe.WebhookSecret)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Invalid webhook signature").
			Mark(ierr.ErrPermissionDenied)
	}

	s.Logger.Infow("processing billing webhook event",
		"event_id", event.ID,
		"event_type", event.Type)

	switch string(event.Type) {
	case "customer.subscription.created", "customer.subscription.updated":
		return s.handleSubscriptionChanged(ctx, event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event)
	default:
		s.Logger.Debugw("ignoring billing webhook event", "event_type", event.Type)
		return nil
	}
}

func (s *billingService) handleSubscriptionChanged(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return ierr.WithError(err).
			WithHint("Malformed subscription payload").
			Mark(ierr.ErrValidation)
	}

	u, err := s.userForEvent(ctx, &stripeSub)
	if err != nil {
		return err
	}

	sub := &subscription.Subscription{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		UserID:               u.ID,
		StripeSubscriptionID: stripeSub.ID,
		PlanStatus:           types.SubscriptionStatus(stripeSub.Status),
		BaseModel:            types.GetDefaultBaseModel(),
	}
	if len(stripeSub.Items.Data) > 0 {
		periodEnd := time.Unix(stripeSub.Items.Data[0].CurrentPeriodEnd, 0).UTC()
		sub.CurrentPeriodEnd = &periodEnd
	}

	if err := s.SubscriptionRepo.Upsert(ctx, sub); err != nil {
		return err
	}

	s.Logger.Infow("subscription state mirrored",
		"user_id", u.ID,
		"stripe_subscription_id", stripeSub.ID,
		"plan_status", sub.PlanStatus)
	return nil
}

func (s *billingService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return ierr.WithError(err).
			WithHint("Malformed subscription payload").
			Mark(ierr.ErrValidation)
	}

	u, err := s.userForEvent(ctx, &stripeSub)
	if err != nil {
		return err
	}

	if err := s.SubscriptionRepo.Delete(ctx, u.ID); err != nil &&
		!stderrors.Is(err, subscription.ErrSubscriptionNotFound) {
		return err
	}

	s.Logger.Infow("subscription removed",
		"user_id", u.ID,
		"stripe_subscription_id", stripeSub.ID)
	return nil
}

// userForEvent resolves the local user a webhook event belongs to via the
// stored customer reference.
func (s *billingService) userForEvent(ctx context.Context, stripeSub *stripe.Subscription) (*user.User, error) {
	if stripeSub.Customer == nil || stripeSub.Customer.ID == "" {
		return nil, ierr.NewError("subscription event missing customer").
			WithHint("Subscription event has no customer reference").
			Mark(ierr.ErrValidation)
	}

	u, err := s.UserRepo.GetByCustomerID(ctx, stripeSub.Customer.ID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, ierr.WithError(err).
				WithHint("No account matches this billing customer").
				WithReportableDetails(map[string]interface{}{
					"customer_id": stripeSub.Customer.ID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

// ensureCustomer returns the user's processor customer id, creating the
// customer on first checkout.
func (s *billingService) ensureCustomer(ctx context.Context, u *user.User) (string, error) {
	if u.CustomerID != nil && *u.CustomerID != "" {
		return *u.CustomerID, nil
	}

	params := &stripe.CustomerCreateParams{
		Email: stripe.String(u.Email),
		Name:  stripe.String(u.CompanyName),
		Metadata: map[string]string{
			"user_id": u.ID,
		},
	}
	customer, err := s.stripeClient.V1Customers.Create(ctx, params)
	if err != nil {
		s.Logger.Errorw("failed to create billing customer",
			"error", err,
			"user_id", u.ID)
		return "", ierr.NewError("failed to create billing customer").
			WithHint("Unable to start checkout, please try again").
			Mark(ierr.ErrHTTPClient)
	}

	u.CustomerID = &customer.ID
	if err := s.UserRepo.Update(ctx, u); err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (s *billingService) billingDisabledErr() error {
	return ierr.NewError("billing is not configured").
		WithHint("Billing is not available in this environment").
		Mark(ierr.ErrInvalidOperation)
}
