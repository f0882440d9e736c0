package testutil

import (
	"context"

	"github.com/invixio/invixio/internal/types"
)

const (
	// DefaultUserID is the authenticated user in tests unless a test swaps
	// identities to exercise ownership isolation.
	DefaultUserID    = "user_test_1"
	DefaultUserEmail = "owner@example.test"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, DefaultUserID)
	ctx = types.SetUserEmail(ctx, DefaultUserEmail)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}

// ContextForUser returns a request context authenticated as the given user.
func ContextForUser(userID, email string) context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, userID)
	ctx = types.SetUserEmail(ctx, email)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
