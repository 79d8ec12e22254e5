// Package gateway is the client for the crypto payment provider
// (NOWPayments-style REST API). The kiosk never talks to the provider
// directly; handlers proxy through this client.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL   string
	apiKey    string
	ipnSecret string
	http      *http.Client
}

func NewClient(baseURL, apiKey, ipnSecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		ipnSecret: ipnSecret,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Payment is the gateway's view of a payment, shared by create and status
// responses. PaymentID arrives as a number on some endpoints and a string on
// others, so it is decoded loosely.
type Payment struct {
	PaymentID     json.Number `json:"payment_id"`
	PaymentStatus string      `json:"payment_status"`
	PayAddress    string      `json:"pay_address"`
	PriceAmount   float64     `json:"price_amount"`
	PriceCurrency string      `json:"price_currency"`
	PayAmount     float64     `json:"pay_amount"`
	PayCurrency   string      `json:"pay_currency"`
	OrderID       string      `json:"order_id"`
}

type CreatePaymentRequest struct {
	PriceAmount      float64 `json:"price_amount"`
	PriceCurrency    string  `json:"price_currency"`
	PayCurrency      string  `json:"pay_currency"`
	OrderID          string  `json:"order_id"`
	OrderDescription string  `json:"order_description,omitempty"`
	IPNCallbackURL   string  `json:"ipn_callback_url,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway returned %s: %s", resp.Status, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to parse gateway response: %w", err)
		}
	}
	return nil
}

// Currencies lists the crypto currencies the gateway accepts.
func (c *Client) Currencies(ctx context.Context) ([]string, error) {
	var out struct {
		Currencies []string `json:"currencies"`
	}
	if err := c.do(ctx, http.MethodGet, "/currencies", nil, &out); err != nil {
		return nil, err
	}
	return out.Currencies, nil
}

// MinAmount returns the minimum payable amount for a currency pair.
func (c *Client) MinAmount(ctx context.Context, from, to string) (float64, error) {
	q := url.Values{}
	q.Set("currency_from", from)
	q.Set("currency_to", to)

	var out struct {
		MinAmount float64 `json:"min_amount"`
	}
	if err := c.do(ctx, http.MethodGet, "/min-amount?"+q.Encode(), nil, &out); err != nil {
		return 0, err
	}
	return out.MinAmount, nil
}

func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodPost, "/payment", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/payment/"+url.PathEscape(paymentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyIPN checks the HMAC-SHA512 signature the gateway attaches to
// callback payloads.
func (c *Client) VerifyIPN(body []byte, signature string) bool {
	if c.ipnSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.ipnSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
