package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"kioskpos-backend/database"
	"kioskpos-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// GetCryptoCurrenciesHandler proxies the gateway's supported-currency list.
func GetCryptoCurrenciesHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	currencies, err := Gateway.Currencies(ctx)
	if err != nil {
		log.Printf("⚠️ Gateway currencies failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// GetCryptoMinAmountHandler proxies the minimum payable amount for a pair.
func GetCryptoMinAmountHandler(c *gin.Context) {
	from := c.DefaultQuery("currency_from", "usd")
	to := c.Query("currency_to")
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency_to is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	min, err := Gateway.MinAmount(ctx, from, to)
	if err != nil {
		log.Printf("⚠️ Gateway min-amount failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"minAmount": min})
}

// GetCryptoPaymentHandler returns the stored payment and refreshes it from
// the gateway when it is not terminal yet. The kiosk polls this endpoint
// every 5 seconds while the payment screen is up.
func GetCryptoPaymentHandler(c *gin.Context) {
	paymentID := c.Param("id")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var record models.CryptoPayment
	if err := database.CryptoPaymentCollection.FindOne(ctx, bson.M{"paymentId": paymentID}).Decode(&record); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	if !models.CryptoStatusTerminal(record.Status) {
		if updated, err := refreshCryptoPayment(ctx, &record); err != nil {
			log.Printf("⚠️ Gateway status check failed for %s: %v", paymentID, err)
		} else {
			record = *updated
		}
	}

	c.JSON(http.StatusOK, record)
}

// CryptoCallbackHandler is the gateway's IPN endpoint. The signature header
// is verified before anything is trusted.
func CryptoCallbackHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable payload"})
		return
	}

	if !Gateway.VerifyIPN(body, c.GetHeader("x-nowpayments-sig")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bad signature"})
		return
	}

	var payload struct {
		PaymentID     interface{} `json:"payment_id"`
		PaymentStatus string      `json:"payment_status"`
		OrderID       string      `json:"order_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var record models.CryptoPayment
	if err := database.CryptoPaymentCollection.FindOne(ctx, bson.M{"orderId": payload.OrderID}).Decode(&record); err != nil {
		// Respond 200 so the gateway does not retry forever.
		log.Printf("⚠️ IPN for unknown order %s", payload.OrderID)
		c.JSON(http.StatusOK, gin.H{"message": "Unknown order, ignored"})
		return
	}

	applyCryptoStatus(ctx, &record, payload.PaymentStatus)
	c.JSON(http.StatusOK, gin.H{"message": "Processed"})
}

// refreshCryptoPayment asks the gateway for the latest status and applies it.
func refreshCryptoPayment(ctx context.Context, record *models.CryptoPayment) (*models.CryptoPayment, error) {
	payment, err := Gateway.GetPayment(ctx, record.PaymentID)
	if err != nil {
		return nil, err
	}
	applyCryptoStatus(ctx, record, payment.PaymentStatus)
	return record, nil
}

// applyCryptoStatus persists a status change and, on a terminal status,
// settles the linked sale exactly once.
func applyCryptoStatus(ctx context.Context, record *models.CryptoPayment, status string) {
	if status == "" || status == record.Status {
		return
	}

	record.Status = status
	record.UpdatedAt = time.Now()
	if _, err := database.CryptoPaymentCollection.UpdateOne(
		ctx,
		bson.M{"_id": record.ID},
		bson.M{"$set": bson.M{"status": record.Status, "updatedAt": record.UpdatedAt}},
	); err != nil {
		log.Printf("⚠️ Crypto payment update failed for %s: %v", record.PaymentID, err)
		return
	}

	if !models.CryptoStatusTerminal(status) {
		return
	}

	if status == models.CryptoStatusFinished {
		settleCryptoSale(ctx, record)
		return
	}

	// failed / refunded / expired: flip the pending sale to failed. The cart
	// is deliberately left alone so the customer can retry.
	result, err := database.TransactionCollection.UpdateOne(
		ctx,
		bson.M{"transactionId": record.OrderID, "status": models.TransactionPending},
		bson.M{"$set": bson.M{"status": models.TransactionFailed}},
	)
	if err != nil {
		log.Printf("⚠️ Could not mark sale %s failed: %v", record.OrderID, err)
		return
	}
	if result.ModifiedCount > 0 {
		log.Printf("❌ Crypto sale %s ended as %s", record.OrderID, status)
	}
}

// settleCryptoSale completes a pending crypto sale: flip to completed, fire
// the side effects, clear the kiosk cart. The pending-status filter makes
// poller and IPN callback settle at most once.
func settleCryptoSale(ctx context.Context, record *models.CryptoPayment) {
	result, err := database.TransactionCollection.UpdateOne(
		ctx,
		bson.M{"transactionId": record.OrderID, "status": models.TransactionPending},
		bson.M{"$set": bson.M{"status": models.TransactionCompleted}},
	)
	if err != nil {
		log.Printf("⚠️ Could not complete sale %s: %v", record.OrderID, err)
		return
	}
	if result.ModifiedCount == 0 {
		return // already settled
	}

	var txn models.Transaction
	if err := database.TransactionCollection.FindOne(ctx, bson.M{"transactionId": record.OrderID}).Decode(&txn); err != nil {
		log.Printf("⚠️ Completed sale %s vanished: %v", record.OrderID, err)
		return
	}

	finalizeSale(ctx, txn)

	if record.SessionID != "" {
		if _, err := Sessions.ClearCart(record.SessionID); err != nil {
			log.Printf("⚠️ Could not clear cart for session %s: %v", record.SessionID, err)
		}
	}
	log.Printf("✅ Crypto sale %s settled", record.OrderID)
}

// RunCryptoPoller refreshes every non-terminal crypto payment on a fixed
// interval until ctx is cancelled. The 5-second cadence matches the kiosk's
// payment screen.
func RunCryptoPoller(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pollPendingCryptoPayments(ctx)
		}
	}
}

func pollPendingCryptoPayments(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := database.CryptoPaymentCollection.Find(opCtx, bson.M{
		"status": bson.M{"$nin": []string{
			models.CryptoStatusFinished,
			models.CryptoStatusFailed,
			models.CryptoStatusRefunded,
			models.CryptoStatusExpired,
		}},
	})
	if err != nil {
		log.Printf("⚠️ Crypto poll query failed: %v", err)
		return
	}
	defer cursor.Close(opCtx)

	var pending []models.CryptoPayment
	if err := cursor.All(opCtx, &pending); err != nil {
		log.Printf("⚠️ Crypto poll decode failed: %v", err)
		return
	}

	for i := range pending {
		if _, err := refreshCryptoPayment(opCtx, &pending[i]); err != nil {
			log.Printf("⚠️ Gateway status check failed for %s: %v", pending[i].PaymentID, err)
		}
	}
}
