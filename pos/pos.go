// Package pos is the client for the separate POS backend that cashiers use
// to confirm kiosk-submitted orders. Calls from checkout are best-effort:
// the sale stands even when the POS cannot be reached.
package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a POS backend is configured at all.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

type OrderItem struct {
	POSItemID string  `json:"posItemId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type Order struct {
	TransactionID string      `json:"transactionId"`
	CustomerID    string      `json:"customerId,omitempty"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"paymentMethod"`
}

// SubmitOrder forwards a kiosk sale so a cashier can confirm it.
func (c *Client) SubmitOrder(ctx context.Context, order Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders/submit", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POS unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POS returned %s: %s", resp.Status, string(raw))
	}
	return nil
}

// CheckStock asks the POS for the current stock of one of its items.
func (c *Client) CheckStock(ctx context.Context, posItemID string) (float64, error) {
	q := url.Values{}
	q.Set("itemId", posItemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stock/check?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("POS unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("POS returned %s: %s", resp.Status, string(raw))
	}

	var out struct {
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to parse POS response: %w", err)
	}
	return out.Quantity, nil
}
