package auth

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
)

// UserContextKey is the key for the signed-in user.
type UserContextKey struct{}

// OrgContextKey is the key for the signed-in user's organization.
type OrgContextKey struct{}

// OrganizationContext identifies the tenant a request acts for.
type OrganizationContext struct {
	ID   int64
	Name string
}

// WithUser stores u and its organization in ctx.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	ctx = context.WithValue(ctx, UserContextKey{}, u)
	return context.WithValue(ctx, OrgContextKey{}, &OrganizationContext{ID: u.OrganizationID, Name: u.OrganizationName})
}

// UserFromContext returns the signed-in user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserContextKey{}).(*domain.User)
	return u, ok && u != nil
}

// OrgFromContext returns the acting organization, if any.
func OrgFromContext(ctx context.Context) (*OrganizationContext, bool) {
	o, ok := ctx.Value(OrgContextKey{}).(*OrganizationContext)
	return o, ok && o != nil
}
