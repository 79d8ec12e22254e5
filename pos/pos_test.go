package pos_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskpos-backend/pos"
)

func TestSubmitOrder(t *testing.T) {
	var received pos.Order
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders/submit", r.URL.Path)
		assert.Equal(t, "Bearer pos-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := pos.NewClient(ts.URL, "pos-key")
	assert.True(t, c.Enabled())

	err := c.SubmitOrder(context.Background(), pos.Order{
		TransactionID: "TXN-000042",
		Items:         []pos.OrderItem{{POSItemID: "P-9", Name: "Amnesia 1g", Quantity: 2, UnitPrice: 10}},
		Total:         20,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "TXN-000042", received.TransactionID)
	require.Len(t, received.Items, 1)
	assert.Equal(t, 2, received.Items[0].Quantity)
}

func TestSubmitOrderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"duplicate order"}`, http.StatusConflict)
	}))
	defer ts.Close()

	c := pos.NewClient(ts.URL, "")
	err := c.SubmitOrder(context.Background(), pos.Order{TransactionID: "TXN-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestCheckStock(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/stock/check", r.URL.Path)
		assert.Equal(t, "P-9", r.URL.Query().Get("itemId"))
		w.Write([]byte(`{"itemId":"P-9","quantity":14}`))
	}))
	defer ts.Close()

	c := pos.NewClient(ts.URL, "")
	qty, err := c.CheckStock(context.Background(), "P-9")
	require.NoError(t, err)
	assert.InDelta(t, 14, qty, 1e-9)
}

func TestEnabled(t *testing.T) {
	assert.False(t, pos.NewClient("", "").Enabled())
}
