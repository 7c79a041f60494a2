package services

import "context"

// Identity is the caller identity extracted from the external identity
// provider's token. Auth itself happens outside this system.
type Identity struct {
	UserID    string
	AccountID string
	Email     string
}

type identityCtxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}
