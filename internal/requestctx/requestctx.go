// Package requestctx carries per-request identity through context.Context so
// services below the HTTP layer can attribute their work.
package requestctx

import "context"

type userKey struct{}
type requestIDKey struct{}

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userKey{}, uid)
}

// UserID returns the authenticated Firebase uid, or "" for anonymous work
// such as the scheduler.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(userKey{}).(string)
	return uid
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}
