package handler

import (
	"net/http"

	"github.com/edufund/grantry/pkg/httpkit"
	"github.com/edufund/grantry/web/api"
	"github.com/edufund/grantry/web/handler/bind"
)

const RegisterEligibleRoute = http.MethodPost + " " + "/eligibility"

// RegisterEligible handles admin registration of eligible identities
type RegisterEligible struct {
	registry Registry
}

func NewRegisterEligible(registry Registry) *RegisterEligible {
	return &RegisterEligible{
		registry: registry,
	}
}

func (h *RegisterEligible) AddRoutes(m *http.ServeMux) {
	m.Handle(RegisterEligibleRoute, httpkit.HandlerFunc(h.Register))
}

func (h *RegisterEligible) Register(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	caller, err := bind.Caller(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	req, err := bind.RegisterEligibleRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	if err := h.registry.RegisterEligible(r.Context(), caller, req.Identity); err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}

	return httpkit.NoContent()
}
