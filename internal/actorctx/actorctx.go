// Package actorctx carries the verified caller identity on a
// context.Context so layers below the transport can reach it without
// depending on gin.
package actorctx

import (
	"context"

	"github.com/coursehub/backend/internal/authz"
)

type ctxKey struct{}

func WithCaller(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(ctx, ctxKey{}, authz.Caller{ID: userID, Role: role})
}

func CallerFrom(ctx context.Context) (*authz.Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(authz.Caller)

	if !ok || c.ID == "" {
		return nil, false
	}

	return &c, true
}
