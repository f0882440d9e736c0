package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/invixio/invixio/internal/domain/subscription"
)

type InMemorySubscriptionStore struct {
	mu   sync.RWMutex
	subs map[string]*subscription.Subscription // keyed by user id
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		subs: make(map[string]*subscription.Subscription),
	}
}

func (s *InMemorySubscriptionStore) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return fmt.Errorf("subscription cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := *sub
	c.UpdatedAt = time.Now().UTC()
	s.subs[sub.UserID] = &c
	return nil
}

func (s *InMemorySubscriptionStore) GetByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[userID]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	c := *sub
	return &c, nil
}

func (s *InMemorySubscriptionStore) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		if sub.StripeSubscriptionID == stripeSubscriptionID {
			c := *sub
			return &c, nil
		}
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (s *InMemorySubscriptionStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[userID]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	delete(s.subs, userID)
	return nil
}

// Clear removes all subscriptions
func (s *InMemorySubscriptionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = make(map[string]*subscription.Subscription)
}
