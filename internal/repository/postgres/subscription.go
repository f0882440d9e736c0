package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/invixio/invixio/internal/domain/subscription"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/postgres"
)

type subscriptionRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewSubscriptionRepository(client postgres.IClient, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{client: client, logger: logger}
}

const subscriptionColumns = `id, user_id, stripe_subscription_id, plan_status, current_period_end,
	status, created_at, updated_at`

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	query := `
	INSERT INTO subscriptions (` + subscriptionColumns + `)
	VALUES (:id, :user_id, :stripe_subscription_id, :plan_status, :current_period_end,
		:status, :created_at, :updated_at)
	ON CONFLICT (user_id) DO UPDATE SET
		stripe_subscription_id = EXCLUDED.stripe_subscription_id,
		plan_status = EXCLUDED.plan_status,
		current_period_end = EXCLUDED.current_period_end,
		updated_at = EXCLUDED.updated_at
	`

	q := r.client.Querier(ctx)
	sub.UpdatedAt = time.Now().UTC()
	if _, err := q.NamedExecContext(ctx, query, sub); err != nil {
		return ierr.WithError(err).
			WithHint("failed to upsert subscription").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	return r.getBy(ctx, `user_id = $1`, userID)
}

func (r *subscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*subscription.Subscription, error) {
	return r.getBy(ctx, `stripe_subscription_id = $1`, stripeSubscriptionID)
}

func (r *subscriptionRepository) getBy(ctx context.Context, cond string, arg interface{}) (*subscription.Subscription, error) {
	q := r.client.Querier(ctx)

	var sub subscription.Subscription
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE ` + cond
	if err := q.GetContext(ctx, &sub, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("failed to fetch subscription").
			Mark(ierr.ErrDatabase)
	}
	return &sub, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, userID string) error {
	q := r.client.Querier(ctx)

	if _, err := q.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID); err != nil {
		return ierr.WithError(err).
			WithHint("failed to delete subscription").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
