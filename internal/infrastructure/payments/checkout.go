// Package payments implements the checkout provider port against the
// provider's REST contract. The provider itself (session UI, card handling)
// is an external collaborator; only its two documented endpoints are used:
// create a session, verify a session.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Client talks to the external checkout provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a provider client. baseURL is the provider API root.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type sessionRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type verifyResponse struct {
	Status        string            `json:"status"`
	TransactionID string            `json:"transaction_id"`
	AmountPaid    int64             `json:"amount_paid"`
	Metadata      map[string]string `json:"metadata"`
}

// CreateSession opens a checkout session with the purchase metadata attached;
// the provider echoes the metadata back on verification.
func (c *Client) CreateSession(ctx context.Context, req ports.ProviderSessionRequest) (*ports.ProviderSession, error) {
	body := sessionRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Metadata: map[string]string{
			"type":       string(req.Type),
			"issue_id":   req.IssueID,
			"user_email": req.UserEmail,
			"user_name":  req.UserName,
		},
	}

	var resp sessionResponse
	if err := c.post(ctx, "/v1/checkout/sessions", body, &resp); err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &ports.ProviderSession{SessionID: resp.ID, RedirectURL: resp.URL}, nil
}

// VerifySession fetches the provider's verdict for a session.
func (c *Client) VerifySession(ctx context.Context, sessionID string) (*ports.ProviderVerification, error) {
	var resp verifyResponse
	if err := c.post(ctx, "/v1/checkout/sessions/"+sessionID+"/verify", struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("verify checkout session: %w", err)
	}

	status := domain.CheckoutFailed
	switch resp.Status {
	case "paid", "complete":
		status = domain.CheckoutPaid
	case "cancelled", "expired":
		status = domain.CheckoutCancelled
	}

	return &ports.ProviderVerification{
		Status:        status,
		TransactionID: resp.TransactionID,
		AmountPaid:    resp.AmountPaid,
		Type:          domain.PaymentType(resp.Metadata["type"]),
		IssueID:       resp.Metadata["issue_id"],
		UserEmail:     resp.Metadata["user_email"],
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
