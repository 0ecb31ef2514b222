package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the payment provider's REST API. Requests are authenticated
// with basic auth over the shop credentials.
type Client struct {
	shopID     string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a new payment provider client
func NewClient(shopID, secretKey, apiURL string) *Client {
	return &Client{
		shopID:     shopID,
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Processor = (*Client)(nil)

type chargeResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// Charge submits the payment to the provider and returns a receipt when the
// charge is accepted. A refusal from the provider surfaces as ErrDeclined.
func (c *Client) Charge(ctx context.Context, chargeReq ChargeRequest) (*Receipt, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(chargeReq); err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/charges", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, ErrDeclined
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected provider status: %s", resp.Status)
	}

	var chargeResp chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&chargeResp); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}

	if !chargeResp.Success {
		return nil, fmt.Errorf("%w: %s", ErrDeclined, chargeResp.Message)
	}

	return &Receipt{
		TransactionID: chargeResp.TransactionID,
		AmountCents:   chargeReq.AmountCents,
		Currency:      chargeReq.Currency,
		ChargedAt:     time.Now(),
	}, nil
}
