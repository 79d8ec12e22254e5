package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MovementStatus string

const (
	MovementPurchasing MovementStatus = "purchasing" // stock coming in
	MovementSales      MovementStatus = "sales"      // stock going out
)

// StockMovement is one entry in the append-only stock ledger. Current stock
// is never stored: it is sum(purchasing) - sum(sales) per product/variant.
type StockMovement struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID     string             `bson:"productId" json:"productId"`
	VariantID     string             `bson:"variantId,omitempty" json:"variantId,omitempty"`
	Quantity      float64            `bson:"quantity" json:"quantity"`
	Status        MovementStatus     `bson:"status" json:"status"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Reason        string             `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// StockKey identifies a stock bucket.
type StockKey struct {
	ProductID string
	VariantID string
}

// FoldStock folds a list of movements into current stock per bucket.
func FoldStock(movements []StockMovement) map[StockKey]float64 {
	stock := make(map[StockKey]float64)
	for _, m := range movements {
		key := StockKey{ProductID: m.ProductID, VariantID: m.VariantID}
		switch m.Status {
		case MovementPurchasing:
			stock[key] += m.Quantity
		case MovementSales:
			stock[key] -= m.Quantity
		}
	}
	return stock
}
