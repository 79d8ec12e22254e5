package gateway_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskpos-backend/gateway"
)

func TestCurrenciesAndMinAmount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		switch r.URL.Path {
		case "/currencies":
			w.Write([]byte(`{"currencies":["btc","eth","ltc"]}`))
		case "/min-amount":
			assert.Equal(t, "usd", r.URL.Query().Get("currency_from"))
			assert.Equal(t, "btc", r.URL.Query().Get("currency_to"))
			w.Write([]byte(`{"min_amount":12.5}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := gateway.NewClient(ts.URL, "test-key", "")

	currencies, err := c.Currencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"btc", "eth", "ltc"}, currencies)

	min, err := c.MinAmount(context.Background(), "usd", "btc")
	require.NoError(t, err)
	assert.InDelta(t, 12.5, min, 1e-9)
}

func TestCreateAndGetPayment(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/payment":
			w.Write([]byte(`{
				"payment_id": 4945313421,
				"payment_status": "waiting",
				"pay_address": "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
				"price_amount": 100,
				"price_currency": "usd",
				"pay_amount": 0.0012,
				"pay_currency": "btc",
				"order_id": "TXN-000042"
			}`))
		case r.Method == http.MethodGet && r.URL.Path == "/payment/4945313421":
			w.Write([]byte(`{"payment_id":"4945313421","payment_status":"finished","order_id":"TXN-000042"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := gateway.NewClient(ts.URL, "k", "")

	p, err := c.CreatePayment(context.Background(), gateway.CreatePaymentRequest{
		PriceAmount:   100,
		PriceCurrency: "usd",
		PayCurrency:   "btc",
		OrderID:       "TXN-000042",
	})
	require.NoError(t, err)
	assert.Equal(t, "4945313421", p.PaymentID.String())
	assert.Equal(t, "waiting", p.PaymentStatus)
	assert.InDelta(t, 0.0012, p.PayAmount, 1e-9)

	p, err = c.GetPayment(context.Background(), "4945313421")
	require.NoError(t, err)
	assert.Equal(t, "finished", p.PaymentStatus)
}

func TestGatewayError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer ts.Close()

	c := gateway.NewClient(ts.URL, "bad", "")
	_, err := c.Currencies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestVerifyIPN(t *testing.T) {
	c := gateway.NewClient("http://unused", "k", "ipn-secret")

	body := []byte(`{"payment_id":1,"payment_status":"finished"}`)
	mac := hmac.New(sha512.New, []byte("ipn-secret"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, c.VerifyIPN(body, sig))
	assert.False(t, c.VerifyIPN(body, "deadbeef"))
	assert.False(t, c.VerifyIPN(body, ""))

	noSecret := gateway.NewClient("http://unused", "k", "")
	assert.False(t, noSecret.VerifyIPN(body, sig))
}
