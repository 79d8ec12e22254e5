package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentCrypto PaymentMethod = "crypto"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending" // crypto sale awaiting gateway confirmation
	TransactionFailed    TransactionStatus = "failed"  // crypto sale the gateway never completed
	TransactionRefunded  TransactionStatus = "refunded"
)

// CryptoDetails is filled in for crypto sales once the gateway payment exists.
type CryptoDetails struct {
	PaymentID   string  `bson:"paymentId" json:"paymentId"`
	PayCurrency string  `bson:"payCurrency" json:"payCurrency"`
	PayAmount   float64 `bson:"payAmount" json:"payAmount"`
	PayAddress  string  `bson:"payAddress,omitempty" json:"payAddress,omitempty"`
}

// Transaction is the immutable record of a completed sale. Nothing is ever
// rewritten after insert except the status flip for refunds.
type Transaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TransactionID string             `bson:"transactionId" json:"transactionId"` // sequential human-readable code
	Items         []CartItem         `bson:"items" json:"items"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	Total         float64            `bson:"total" json:"total"`
	PaymentMethod PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	Status        TransactionStatus  `bson:"status" json:"status"`
	CustomerID    string             `bson:"customerId,omitempty" json:"customerId,omitempty"`
	PointsEarned  float64            `bson:"pointsEarned" json:"pointsEarned"`
	PointsUsed    float64            `bson:"pointsUsed" json:"pointsUsed"`
	CryptoDetails *CryptoDetails     `bson:"cryptoDetails,omitempty" json:"cryptoDetails,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
