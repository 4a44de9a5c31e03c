// Package bind converts between HTTP requests/responses and domain values.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/edufund/grantry/registry"
	"github.com/edufund/grantry/web/api"
)

// CallerHeader carries the caller identity established by the surrounding
// environment (authenticating proxy or gateway). The registry trusts it
// as given.
const CallerHeader = "X-Registry-Caller"

// Sentinel errors for request binding
var (
	ErrMissingCaller  = errors.New("missing caller identity header")
	ErrInvalidBody    = errors.New("invalid request body")
	ErrInvalidGrantID = errors.New("invalid grant id")
	ErrInvalidPage    = errors.New("invalid page parameter")
	ErrInvalidPerPage = errors.New("invalid per_page parameter")

	// Specific body validation errors
	ErrMissingIdentity = errors.New("identity must not be empty")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrNegativeDeposit = errors.New("deposit must not be negative")

	// Specific grant id validation errors
	ErrGrantIDNotNumeric  = errors.New("grant id must be numeric")
	ErrGrantIDNotPositive = errors.New("grant id must be positive")

	// Specific page validation errors
	ErrPageNotNumeric  = errors.New("page must be numeric")
	ErrPageNotPositive = errors.New("page must be positive")

	// Specific per_page validation errors
	ErrPerPageNotNumeric  = errors.New("per_page must be numeric")
	ErrPerPageNotPositive = errors.New("per_page must be positive")
)

// Caller extracts the trusted caller identity from the request
func Caller(r *http.Request) (string, error) {
	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		return "", ErrMissingCaller
	}
	return caller, nil
}

// GrantID extracts and validates the grant id path parameter
func GrantID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidGrantID, ErrGrantIDNotNumeric)
	}
	if id < 1 {
		return 0, fmt.Errorf("%w: %w", ErrInvalidGrantID, ErrGrantIDNotPositive)
	}
	return id, nil
}

// RegisterEligibleRequest binds and validates the POST /eligibility body
func RegisterEligibleRequest(r *http.Request) (api.RegisterEligibleRequest, error) {
	var req api.RegisterEligibleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if req.Identity == "" {
		return req, fmt.Errorf("%w: %w", ErrInvalidBody, ErrMissingIdentity)
	}
	return req, nil
}

// CreateGrantRequest binds and validates the POST /grants body.
// The name may be empty and the amount may be zero; only negative values
// are rejected here, since the wire format could express them while the
// modeled value type cannot.
func CreateGrantRequest(r *http.Request) (api.CreateGrantRequest, error) {
	var req api.CreateGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if req.Amount < 0 {
		return req, fmt.Errorf("%w: %w", ErrInvalidBody, ErrNegativeAmount)
	}
	if req.Deposit < 0 {
		return req, fmt.Errorf("%w: %w", ErrInvalidBody, ErrNegativeDeposit)
	}
	return req, nil
}

// GrantsRequest binds HTTP request to GrantsRequest with defaults
func GrantsRequest(r *http.Request) (api.GrantsRequest, error) {
	req := api.GrantsRequest{
		Claimed: "",                      // No claim-state filter
		Page:    registry.DefaultPage,    // Default to first page
		PerPage: registry.DefaultPerPage, // Default pagination size
	}

	query := r.URL.Query()

	// The claimed parameter is validated by the domain criteria
	req.Claimed = query.Get("claimed")

	// Parse page parameter
	if pageParam := query.Get("page"); pageParam != "" {
		page, err := parsePageNumber(pageParam)
		if err != nil {
			return req, fmt.Errorf("%w: %w", ErrInvalidPage, err)
		}
		req.Page = page
	}

	// Parse per_page parameter
	if perPageParam := query.Get("per_page"); perPageParam != "" {
		perPage, err := parsePerPageLimit(perPageParam)
		if err != nil {
			return req, fmt.Errorf("%w: %w", ErrInvalidPerPage, err)
		}
		req.PerPage = perPage
	}

	return req, nil
}

// parsePageNumber validates that the page parameter is a positive integer
func parsePageNumber(pageParam string) (uint64, error) {
	page, err := strconv.ParseUint(pageParam, 10, 64)
	if err != nil {
		return 0, ErrPageNotNumeric
	}

	if page == 0 {
		return 0, ErrPageNotPositive
	}

	return page, nil
}

// parsePerPageLimit validates that the per_page parameter is a positive integer.
// The upper bound is enforced by the domain criteria.
func parsePerPageLimit(perPageParam string) (uint64, error) {
	perPage, err := strconv.ParseUint(perPageParam, 10, 64)
	if err != nil {
		return 0, ErrPerPageNotNumeric
	}

	if perPage == 0 {
		return 0, ErrPerPageNotPositive
	}

	return perPage, nil
}

// GrantResponse binds a domain grant to the API response format
func GrantResponse(grant registry.Grant) api.Grant {
	resp := api.Grant{
		ID:        grant.ID,
		Name:      grant.Name,
		Amount:    strconv.FormatInt(grant.Amount, 10),
		Donor:     grant.Donor,
		Recipient: grant.Recipient,
		Funded:    grant.Funded,
		Claimed:   grant.Claimed,
		CreatedAt: grant.CreatedAt.Format(time.RFC3339),
	}
	if !grant.ClaimedAt.IsZero() {
		resp.ClaimedAt = grant.ClaimedAt.Format(time.RFC3339)
	}
	return resp
}

// GrantsResponse binds domain grants to the API list response format
func GrantsResponse(grants []registry.Grant) api.GrantsResponse {
	apiGrants := make([]api.Grant, len(grants))
	for i, g := range grants {
		apiGrants[i] = GrantResponse(g)
	}

	return api.GrantsResponse{
		Data: apiGrants,
	}
}

// ClaimGrantResponse binds a claimed grant to the API response format
func ClaimGrantResponse(grant registry.Grant) api.ClaimGrantResponse {
	return api.ClaimGrantResponse{
		ID:        grant.ID,
		Recipient: grant.Recipient,
		Amount:    strconv.FormatInt(grant.Amount, 10),
	}
}
