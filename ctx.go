package authclient

import "context"

var userCtxKey = &contextKey{"user"}
var credentialedCtxKey = &contextKey{"credentialed"}

type contextKey struct {
	name string
}

// WithContext sets the authenticated User in the given context
func WithContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// FromContext finds the authenticated user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// withCredentialed marks a request context as carrying a bearer
// credential. The inbound stage keys its 401/403 classification on this
// marker rather than on the store, which may already have been cleared
// by a concurrent invalidation.
func withCredentialed(ctx context.Context) context.Context {
	return context.WithValue(ctx, credentialedCtxKey, true)
}

func isCredentialed(ctx context.Context) bool {
	flagged, ok := ctx.Value(credentialedCtxKey).(bool)
	return ok && flagged
}
