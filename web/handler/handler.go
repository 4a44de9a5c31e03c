// Package handler exposes the grant registry operations over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/edufund/grantry/registry"
)

// Registry defines the registry operations the handlers depend on
type Registry interface {
	RegisterEligible(ctx context.Context, caller, identity string) error
	CreateGrant(ctx context.Context, caller, name string, amount, deposited int64) (int64, error)
	ClaimGrant(ctx context.Context, caller string, id int64) (registry.Grant, error)
	Grant(ctx context.Context, id int64) (registry.Grant, error)
	ListGrants(ctx context.Context, criteria registry.ListCriteria) (*registry.GrantsPage, error)
}

// AddRoutes registers every registry route on the mux
func AddRoutes(m *http.ServeMux, reg Registry) {
	NewRegisterEligible(reg).AddRoutes(m)
	NewCreateGrant(reg).AddRoutes(m)
	NewClaimGrant(reg).AddRoutes(m)
	NewGetGrant(reg).AddRoutes(m)
	NewListGrants(reg).AddRoutes(m)
}
