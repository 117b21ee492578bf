package authctx

import (
	"context"

	"github.com/campusbooks/marketplace-backend/internal/model"
)

// Principal is the authenticated caller: a stable user id plus the role
// claim supplied by the identity provider. It is passed explicitly into
// every service call instead of being read from ambient request state.
type Principal struct {
	UID  string
	Role model.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

type ctxKey string

const keyPrincipal ctxKey = "auth_principal"

// WithPrincipal stores the authenticated principal on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

// PrincipalFrom returns the principal if present.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(keyPrincipal).(Principal)
	return p, ok
}
