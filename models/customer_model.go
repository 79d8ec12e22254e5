package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PointType string

const (
	PointAdded PointType = "added"
	PointMinus PointType = "minus"
)

// PointTransaction is one entry in a customer's append-only point ledger.
// Amount is stored positive; Type carries the sign.
type PointTransaction struct {
	Amount        float64   `bson:"amount" json:"amount"`
	Type          PointType `bson:"type" json:"type"`
	Reason        string    `bson:"reason,omitempty" json:"reason,omitempty"`
	TransactionID string    `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Timestamp     time.Time `bson:"timestamp" json:"timestamp"`
}

// Signed returns the ledger entry's contribution to the total.
func (t PointTransaction) Signed() float64 {
	if t.Type == PointMinus {
		return -t.Amount
	}
	return t.Amount
}

type Customer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID string             `bson:"customerId" json:"customerId"` // member code typed at the kiosk
	Name       string             `bson:"name" json:"name"`
	Points     []PointTransaction `bson:"points,omitempty" json:"points,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// TotalPoints folds the ledger. The total is never stored; it is recomputed
// on every read.
func (c Customer) TotalPoints() float64 {
	var total float64
	for _, t := range c.Points {
		total += t.Signed()
	}
	return total
}

// CanRedeem reports whether subtracting amount would keep the fold
// non-negative. Checked before every minus append.
func (c Customer) CanRedeem(amount float64) bool {
	return amount >= 0 && c.TotalPoints()-amount >= 0
}
