package subscription

import (
	"context"
	"errors"
)

// ErrSubscriptionNotFound is returned when a user has no subscription row
var ErrSubscriptionNotFound = errors.New("subscription not found")

// Repository defines the interface for subscription persistence operations
type Repository interface {
	// Upsert creates or replaces the user's subscription row
	Upsert(ctx context.Context, sub *Subscription) error

	// GetByUserID retrieves the user's subscription
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)

	// GetByStripeID retrieves a subscription by the processor's id
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)

	// Delete removes the user's subscription row
	Delete(ctx context.Context, userID string) error
}
