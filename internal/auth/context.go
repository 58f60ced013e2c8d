package auth

import "context"

// ContextWithPrincipal returns ctx carrying principal. Handlers read it back with FromContext.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}
