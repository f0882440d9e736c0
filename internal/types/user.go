package types

import (
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/samber/lo"
)

// BusinessType describes the kind of business a user runs, captured during
// onboarding.
type BusinessType string

const (
	BusinessTypeFreelancer    BusinessType = "freelancer"
	BusinessTypeSmallBusiness BusinessType = "small_business"
	BusinessTypeOther         BusinessType = "other"
)

func (t BusinessType) String() string {
	return string(t)
}

func (t BusinessType) Validate() error {
	allowed := []BusinessType{
		BusinessTypeFreelancer,
		BusinessTypeSmallBusiness,
		BusinessTypeOther,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid business type").
			WithHint("Please tell us about your business").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionStatus mirrors the payment processor's subscription status.
// Any status other than active means the user is on the free plan.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusUnpaid   SubscriptionStatus = "unpaid"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsActive reports whether the subscription entitles the user to the paid
// plan.
func (s SubscriptionStatus) IsActive() bool {
	return s == SubscriptionStatusActive
}
