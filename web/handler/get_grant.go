package handler

import (
	"net/http"

	"github.com/edufund/grantry/pkg/httpkit"
	"github.com/edufund/grantry/web/api"
	"github.com/edufund/grantry/web/handler/bind"
)

const GetGrantRoute = http.MethodGet + " " + "/grants/{id}"

// GetGrant handles read-only retrieval of a single grant
type GetGrant struct {
	registry Registry
}

func NewGetGrant(registry Registry) *GetGrant {
	return &GetGrant{
		registry: registry,
	}
}

func (h *GetGrant) AddRoutes(m *http.ServeMux) {
	m.Handle(GetGrantRoute, httpkit.HandlerFunc(h.Get))
}

func (h *GetGrant) Get(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	id, err := bind.GrantID(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	grant, err := h.registry.Grant(r.Context(), id)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}

	return httpkit.JSON(bind.GrantResponse(grant))
}
