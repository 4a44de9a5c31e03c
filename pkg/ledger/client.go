// Package ledger provides a client for the external ledger service that
// executes outward value transfers on behalf of the registry.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Sentinel errors for ledger operations
var (
	ErrTransferRejected = errors.New("ledger rejected transfer")
)

// Client represents a ledger service API client
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new ledger API client with the given HTTP client and base URL
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// TransferRequest represents an outward transfer instruction.
// Reference is a caller-chosen idempotency key: submitting the same
// reference twice must not move value twice.
type TransferRequest struct {
	To        string `json:"to"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

// Transfer submits an outward transfer to the ledger service
func (c *Client) Transfer(ctx context.Context, req TransferRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding transfer: %w", err)
	}

	url := fmt.Sprintf("%s/v1/transfers", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: unexpected status code: %d", ErrTransferRejected, resp.StatusCode)
	}

	return nil
}

// Pay executes a payout to a recipient. It adapts Transfer to the
// registry's Payer interface.
func (c *Client) Pay(ctx context.Context, recipient string, amount int64, reference string) error {
	return c.Transfer(ctx, TransferRequest{
		To:        recipient,
		Amount:    amount,
		Reference: reference,
	})
}
