package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gateway payment statuses, as reported by the crypto payment provider.
const (
	CryptoStatusWaiting       = "waiting"
	CryptoStatusConfirming    = "confirming"
	CryptoStatusConfirmed     = "confirmed"
	CryptoStatusSending       = "sending"
	CryptoStatusPartiallyPaid = "partially_paid"
	CryptoStatusFinished      = "finished"
	CryptoStatusFailed        = "failed"
	CryptoStatusRefunded      = "refunded"
	CryptoStatusExpired       = "expired"
)

// CryptoStatusTerminal reports whether the gateway will never change this
// status again, i.e. polling can stop.
func CryptoStatusTerminal(status string) bool {
	switch status {
	case CryptoStatusFinished, CryptoStatusFailed, CryptoStatusRefunded, CryptoStatusExpired:
		return true
	}
	return false
}

// CryptoPayment mirrors a gateway payment for a kiosk checkout. OrderID links
// back to the transaction code reserved for the sale.
type CryptoPayment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PaymentID   string             `bson:"paymentId" json:"paymentId"`
	OrderID     string             `bson:"orderId" json:"orderId"`
	PriceAmount float64            `bson:"priceAmount" json:"priceAmount"`
	PayCurrency string             `bson:"payCurrency" json:"payCurrency"`
	PayAmount   float64            `bson:"payAmount" json:"payAmount"`
	PayAddress  string             `bson:"payAddress,omitempty" json:"payAddress,omitempty"`
	Status      string             `bson:"status" json:"status"`
	SessionID   string             `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
