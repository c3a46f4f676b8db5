package httpapi

import (
	"context"

	"github.com/dmitrymomot/gatekeeper/internal/store"
)

type callerCtxKey struct{}

func withCaller(ctx context.Context, caller store.User) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, caller)
}

func callerFromContext(ctx context.Context) (store.User, bool) {
	caller, ok := ctx.Value(callerCtxKey{}).(store.User)
	return caller, ok
}
