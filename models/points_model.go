package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PendingPointsStatus string

const (
	PendingPointsOpen      PendingPointsStatus = "pending"
	PendingPointsApproved  PendingPointsStatus = "approved"
	PendingPointsDiscarded PendingPointsStatus = "discarded"
)

// PendingPoints is an approval-queue entry. Points earned at the kiosk are
// not applied to the customer ledger until a cashier approves them in the POS
// app; discarding is a status flip with no ledger effect.
type PendingPoints struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerID    string              `bson:"customerId" json:"customerId"`
	Amount        float64             `bson:"amount" json:"amount"`
	Reason        string              `bson:"reason,omitempty" json:"reason,omitempty"`
	TransactionID string              `bson:"transactionId" json:"transactionId"`
	Status        PendingPointsStatus `bson:"status" json:"status"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	ResolvedAt    *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}
