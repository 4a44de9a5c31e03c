package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/edufund/grantry/pkg/httpkit"
	"github.com/edufund/grantry/registry"
	"github.com/edufund/grantry/web/api"
	"github.com/edufund/grantry/web/handler/bind"
)

const ListGrantsRoute = http.MethodGet + " " + "/grants"

// Sentinel errors
var (
	ErrListFailed = errors.New("failed to list grants")
)

// ListGrants handles paged listing of grants in id order
type ListGrants struct {
	registry Registry
}

func NewListGrants(registry Registry) *ListGrants {
	return &ListGrants{
		registry: registry,
	}
}

func (h *ListGrants) AddRoutes(m *http.ServeMux) {
	m.Handle(ListGrantsRoute, httpkit.HandlerFunc(h.List))
}

func (h *ListGrants) List(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	// Parse query parameters using bind layer
	req, err := bind.GrantsRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	// Create domain criteria with validation
	criteria, err := registry.NewListCriteria(req.Claimed, req.Page, req.PerPage)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	// Query grants
	page, err := h.registry.ListGrants(r.Context(), criteria)
	if err != nil {
		return httpkit.JsonError(api.InternalServerError(fmt.Errorf("%w: %w", ErrListFailed, err)))
	}

	// Build GitHub-style Link header for navigation
	if linkHeader := buildPaginationLinks(page, r.URL); linkHeader != "" {
		w.Header().Set("Link", linkHeader)
	}

	return httpkit.JSON(bind.GrantsResponse(page.Grants))
}

// buildPaginationLinks creates GitHub-style Link header for pagination navigation
func buildPaginationLinks(page *registry.GrantsPage, baseURL *url.URL) string {
	var links []string

	// Build base URL with existing query params (like the claimed filter)
	u := *baseURL
	query := u.Query()

	// Previous page link
	if page.HasPrevious() {
		query.Set("page", fmt.Sprintf("%d", page.Number-1))
		query.Set("per_page", fmt.Sprintf("%d", page.Size))
		u.RawQuery = query.Encode()
		links = append(links, fmt.Sprintf(`<%s>; rel="prev"`, u.String()))
	}

	// Next page link (only if we know there are more pages)
	if page.HasNext() {
		query.Set("page", fmt.Sprintf("%d", page.Number+1))
		query.Set("per_page", fmt.Sprintf("%d", page.Size))
		u.RawQuery = query.Encode()
		links = append(links, fmt.Sprintf(`<%s>; rel="next"`, u.String()))
	}

	// rel="first" is redundant (always page=1) and rel="last" would need a
	// count query; prev/next covers the navigation that matters.

	return strings.Join(links, ", ")
}
