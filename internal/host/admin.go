package host

import "context"

type adminKey struct{}

// WithAdmin returns a context carrying the authenticated administrator id.
// The host's authentication layer sets it before dispatching admin routes.
func WithAdmin(ctx context.Context, memberID int64) context.Context {
	return context.WithValue(ctx, adminKey{}, memberID)
}

// AdminFromContext returns the administrator id set by WithAdmin.
func AdminFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminKey{}).(int64)
	return id, ok
}
