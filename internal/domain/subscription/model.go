package subscription

import (
	"time"

	"github.com/invixio/invixio/internal/types"
)

// Subscription mirrors the payment processor's subscription state for a user.
// At most one subscription row exists per user; its status decides whether
// the free-plan invoice quota applies.
type Subscription struct {
	ID                   string                   `db:"id" json:"id"`
	UserID               string                   `db:"user_id" json:"user_id"`
	StripeSubscriptionID string                   `db:"stripe_subscription_id" json:"stripe_subscription_id"`
	PlanStatus           types.SubscriptionStatus `db:"plan_status" json:"plan_status"`
	CurrentPeriodEnd     *time.Time               `db:"current_period_end" json:"current_period_end,omitempty"`
	types.BaseModel
}

// IsActive reports whether the user is on the paid plan.
func (s *Subscription) IsActive() bool {
	return s != nil && s.PlanStatus.IsActive()
}
