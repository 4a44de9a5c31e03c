package handler

import (
	"net/http"

	"github.com/edufund/grantry/pkg/httpkit"
	"github.com/edufund/grantry/web/api"
	"github.com/edufund/grantry/web/handler/bind"
)

const CreateGrantRoute = http.MethodPost + " " + "/grants"

// CreateGrant handles donor-initiated grant creation
type CreateGrant struct {
	registry Registry
}

func NewCreateGrant(registry Registry) *CreateGrant {
	return &CreateGrant{
		registry: registry,
	}
}

func (h *CreateGrant) AddRoutes(m *http.ServeMux) {
	m.Handle(CreateGrantRoute, httpkit.HandlerFunc(h.Create))
}

func (h *CreateGrant) Create(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	caller, err := bind.Caller(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	req, err := bind.CreateGrantRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	id, err := h.registry.CreateGrant(r.Context(), caller, req.Name, req.Amount, req.Deposit)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}

	return httpkit.JSONWithStatus(http.StatusCreated, api.CreateGrantResponse{ID: id})
}
