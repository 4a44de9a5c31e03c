package handler

import (
	"net/http"

	"github.com/edufund/grantry/pkg/httpkit"
	"github.com/edufund/grantry/web/api"
	"github.com/edufund/grantry/web/handler/bind"
)

const ClaimGrantRoute = http.MethodPost + " " + "/grants/{id}/claim"

// ClaimGrant handles the one-time claim of a grant by an eligible recipient
type ClaimGrant struct {
	registry Registry
}

func NewClaimGrant(registry Registry) *ClaimGrant {
	return &ClaimGrant{
		registry: registry,
	}
}

func (h *ClaimGrant) AddRoutes(m *http.ServeMux) {
	m.Handle(ClaimGrantRoute, httpkit.HandlerFunc(h.Claim))
}

func (h *ClaimGrant) Claim(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	caller, err := bind.Caller(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	id, err := bind.GrantID(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	grant, err := h.registry.ClaimGrant(r.Context(), caller, id)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}

	return httpkit.JSON(bind.ClaimGrantResponse(grant))
}
