package api

// RegisterEligibleRequest represents the body for POST /eligibility
type RegisterEligibleRequest struct {
	Identity string `json:"identity"`
}

// CreateGrantRequest represents the body for POST /grants.
// Deposit is the value attached to the call; it must equal Amount exactly.
type CreateGrantRequest struct {
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	Deposit int64  `json:"deposit"`
}

// CreateGrantResponse represents the response for POST /grants
type CreateGrantResponse struct {
	ID int64 `json:"id"`
}

// ClaimGrantResponse represents the response for POST /grants/{id}/claim
type ClaimGrantResponse struct {
	ID        int64  `json:"id"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// Grant represents a single grant in API responses
type Grant struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Donor     string `json:"donor"`
	Recipient string `json:"recipient,omitempty"`
	Funded    bool   `json:"funded"`
	Claimed   bool   `json:"claimed"`
	CreatedAt string `json:"created_at"`
	ClaimedAt string `json:"claimed_at,omitempty"`
}

// GrantsRequest represents the query parameters for GET /grants
type GrantsRequest struct {
	Claimed string `query:"claimed"`  // Optional claim-state filter: "true" or "false"
	Page    uint64 `query:"page"`     // Page number for pagination (default: 1)
	PerPage uint64 `query:"per_page"` // Number of items per page (default: 50, max: 100)
}

// GrantsResponse represents the API response format for GET /grants
type GrantsResponse struct {
	Data []Grant `json:"data"`
}
