package auth

import (
	"context"

	"github.com/recruitdesk/apiserver/types"
)

type contextKey string

const (
	userContextKey contextKey = "user"
	slotContextKey contextKey = "identity-slot"
)

// identitySlot lets middleware that wraps the auth gate observe who the
// request was authenticated as after the handler chain returns.
type identitySlot struct {
	userID string
}

// WithIdentitySlot prepares ctx so that a later WithUser call is visible to
// IdentityFromSlot on the same ctx.
func WithIdentitySlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, slotContextKey, &identitySlot{})
}

// IdentityFromSlot returns the user id recorded by WithUser, if any.
func IdentityFromSlot(ctx context.Context) string {
	slot, ok := ctx.Value(slotContextKey).(*identitySlot)
	if !ok {
		return ""
	}
	return slot.userID
}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, user types.User) context.Context {
	if slot, ok := ctx.Value(slotContextKey).(*identitySlot); ok {
		slot.userID = user.ID
	}
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user attached by WithUser.
func UserFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(userContextKey).(types.User)
	return user, ok
}
