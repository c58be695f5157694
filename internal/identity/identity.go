// Package identity carries the authenticated user through a request context.
package identity

import "context"

type Identity struct {
	UserID   uint
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool { return i.Role == "admin" }

type ctxKey struct{}

func IntoContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == 0 {
		return Identity{}, false
	}
	return id, true
}
