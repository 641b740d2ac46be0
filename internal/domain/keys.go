package domain

import "context"

type CtxKey string

const (
	// KeyUserID carries the acting user's identifier, supplied by the
	// upstream gateway. It is recorded as createdBy/updatedBy.
	KeyUserID    CtxKey = "UserID"
	KeyRequestID CtxKey = "RequestID"
)

// ActorFrom returns the acting user id stored in ctx, if any.
func ActorFrom(ctx context.Context) *string {
	v, ok := ctx.Value(KeyUserID).(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}
