package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kioskpos-backend/models"
)

func TestCartTotals(t *testing.T) {
	items := []models.CartItem{
		{Name: "Amnesia 1g", UnitPrice: 10, Quantity: 2},
		{Name: "Grinder", UnitPrice: 15, Quantity: 1},
	}

	assert.InDelta(t, 35, models.CartSubtotal(items), 1e-9)
	assert.InDelta(t, 30, models.CartTotal(items, 5), 1e-9)

	// Redemption is clamped: never below zero, never above the subtotal.
	assert.InDelta(t, 0, models.CartTotal(items, 100), 1e-9)
	assert.InDelta(t, 35, models.CartTotal(items, -3), 1e-9)

	assert.Zero(t, models.CartSubtotal(nil))
}

func TestCustomerPointsFold(t *testing.T) {
	now := time.Now()
	c := models.Customer{
		CustomerID: "M-1001",
		Points: []models.PointTransaction{
			{Amount: 100, Type: models.PointAdded, Timestamp: now},
			{Amount: 30, Type: models.PointMinus, Timestamp: now},
			{Amount: 5, Type: models.PointAdded, Timestamp: now},
		},
	}

	assert.InDelta(t, 75, c.TotalPoints(), 1e-9)

	assert.True(t, c.CanRedeem(75))
	assert.False(t, c.CanRedeem(76))
	assert.False(t, c.CanRedeem(-1))
	assert.True(t, models.Customer{}.CanRedeem(0))
}

func TestFoldStock(t *testing.T) {
	movements := []models.StockMovement{
		{ProductID: "p1", Quantity: 10, Status: models.MovementPurchasing},
		{ProductID: "p1", Quantity: 3, Status: models.MovementSales},
		{ProductID: "p1", VariantID: "v1", Quantity: 5, Status: models.MovementPurchasing},
		{ProductID: "p2", Quantity: 1, Status: models.MovementSales},
	}

	stock := models.FoldStock(movements)
	assert.InDelta(t, 7, stock[models.StockKey{ProductID: "p1"}], 1e-9)
	assert.InDelta(t, 5, stock[models.StockKey{ProductID: "p1", VariantID: "v1"}], 1e-9)
	assert.InDelta(t, -1, stock[models.StockKey{ProductID: "p2"}], 1e-9)
}
