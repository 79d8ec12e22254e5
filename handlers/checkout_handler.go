package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"kioskpos-backend/cashback"
	"kioskpos-backend/database"
	"kioskpos-backend/gateway"
	"kioskpos-backend/models"
	"kioskpos-backend/pos"
	"kioskpos-backend/session"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckoutHandler turns the session cart into a sale. Cash and card sales
// are final immediately; crypto sales stay pending until the gateway reports
// a terminal status (poller or IPN callback). The cart is cleared only once
// the sale is final, never on failure.
func CheckoutHandler(c *gin.Context) {
	var input struct {
		SessionID     string               `json:"sessionId"`
		PaymentMethod models.PaymentMethod `json:"paymentMethod"`
		PayCurrency   string               `json:"payCurrency"` // crypto only
		PointsUsed    float64              `json:"pointsUsed"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	snap, err := Sessions.Touch(input.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if errors.Is(err, session.ErrExpired) {
		c.JSON(http.StatusGone, gin.H{"error": "Session expired"})
		return
	}

	if len(snap.Cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	switch input.PaymentMethod {
	case models.PaymentCash, models.PaymentCard, models.PaymentCrypto:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Member lookup and points validation. Redeeming without a member code
	// is rejected; the fold check runs against the fresh document.
	var customer *models.Customer
	if snap.CustomerCode != "" {
		var found models.Customer
		if err := database.CustomerCollection.FindOne(ctx, bson.M{"customerId": snap.CustomerCode}).Decode(&found); err == nil {
			customer = &found
		}
	}
	if input.PointsUsed > 0 {
		if customer == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Points require an identified member"})
			return
		}
		if !customer.CanRedeem(input.PointsUsed) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       "Not enough points",
				"totalPoints": customer.TotalPoints(),
			})
			return
		}
	}

	subtotal := models.CartSubtotal(snap.Cart)
	total := models.CartTotal(snap.Cart, input.PointsUsed)

	pointsEarned := 0.0
	if customer != nil {
		pointsEarned = cashback.ForCart(snap.Cart, loadCategoryRules(ctx))
	}

	txnCode, err := database.NextTransactionID(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reserve transaction ID"})
		return
	}

	txn := models.Transaction{
		ID:            primitive.NewObjectID(),
		TransactionID: txnCode,
		Items:         snap.Cart,
		Subtotal:      subtotal,
		Total:         total,
		PaymentMethod: input.PaymentMethod,
		Status:        models.TransactionCompleted,
		CustomerID:    snap.CustomerCode,
		PointsEarned:  pointsEarned,
		PointsUsed:    input.PointsUsed,
		CreatedAt:     time.Now(),
	}

	if input.PaymentMethod == models.PaymentCrypto {
		startCryptoSale(c, ctx, txn, input.PayCurrency, input.SessionID)
		return
	}

	if _, err := database.TransactionCollection.InsertOne(ctx, txn); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}

	finalizeSale(ctx, txn)

	if _, err := Sessions.ClearCart(input.SessionID); err != nil {
		log.Printf("⚠️ Could not clear cart for session %s: %v", input.SessionID, err)
	}

	c.JSON(http.StatusCreated, txn)
}

// startCryptoSale creates the gateway payment and stores the sale as
// pending. Nothing else happens until the gateway reaches a terminal status.
func startCryptoSale(c *gin.Context, ctx context.Context, txn models.Transaction, payCurrency, sessionID string) {
	if payCurrency == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payCurrency is required for crypto"})
		return
	}

	payment, err := Gateway.CreatePayment(ctx, gateway.CreatePaymentRequest{
		PriceAmount:      txn.Total,
		PriceCurrency:    "usd",
		PayCurrency:      payCurrency,
		OrderID:          txn.TransactionID,
		OrderDescription: "Kiosk order " + txn.TransactionID,
	})
	if err != nil {
		log.Printf("⚠️ Gateway payment creation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
		return
	}

	now := time.Now()
	record := models.CryptoPayment{
		ID:          primitive.NewObjectID(),
		PaymentID:   payment.PaymentID.String(),
		OrderID:     txn.TransactionID,
		PriceAmount: txn.Total,
		PayCurrency: payment.PayCurrency,
		PayAmount:   payment.PayAmount,
		PayAddress:  payment.PayAddress,
		Status:      payment.PaymentStatus,
		SessionID:   sessionID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if record.Status == "" {
		record.Status = models.CryptoStatusWaiting
	}

	txn.Status = models.TransactionPending
	txn.CryptoDetails = &models.CryptoDetails{
		PaymentID:   record.PaymentID,
		PayCurrency: record.PayCurrency,
		PayAmount:   record.PayAmount,
		PayAddress:  record.PayAddress,
	}

	if _, err := database.TransactionCollection.InsertOne(ctx, txn); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}
	if _, err := database.CryptoPaymentCollection.InsertOne(ctx, record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"transaction": txn,
		"payment":     record,
	})
}

// finalizeSale fires the post-sale side effects. Each one is independently
// best-effort: a failure is logged and the sale stands.
func finalizeSale(ctx context.Context, txn models.Transaction) {
	if POS.Enabled() {
		order := pos.Order{
			TransactionID: txn.TransactionID,
			CustomerID:    txn.CustomerID,
			Total:         txn.Total,
			PaymentMethod: string(txn.PaymentMethod),
		}
		for _, item := range txn.Items {
			order.Items = append(order.Items, pos.OrderItem{
				POSItemID: item.POSItemID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		if err := POS.SubmitOrder(ctx, order); err != nil {
			log.Printf("⚠️ POS order submit failed for %s: %v", txn.TransactionID, err)
		}
	}

	for _, item := range txn.Items {
		if item.ProductID == "" {
			continue // builder joints have no stock bucket
		}
		movement := models.StockMovement{
			ID:            primitive.NewObjectID(),
			ProductID:     item.ProductID,
			VariantID:     item.VariantOption,
			Quantity:      float64(item.Quantity),
			Status:        models.MovementSales,
			TransactionID: txn.TransactionID,
			CreatedAt:     time.Now(),
		}
		if _, err := database.StockMovementCollection.InsertOne(ctx, movement); err != nil {
			log.Printf("⚠️ Stock movement write failed for %s/%s: %v", item.ProductID, item.VariantOption, err)
		}
	}

	if txn.CustomerID != "" && txn.PointsEarned > 0 {
		pending := models.PendingPoints{
			ID:            primitive.NewObjectID(),
			CustomerID:    txn.CustomerID,
			Amount:        txn.PointsEarned,
			Reason:        "Cashback for " + txn.TransactionID,
			TransactionID: txn.TransactionID,
			Status:        models.PendingPointsOpen,
			CreatedAt:     time.Now(),
		}
		if _, err := database.PendingPointsCollection.InsertOne(ctx, pending); err != nil {
			log.Printf("⚠️ Pending points write failed for %s: %v", txn.TransactionID, err)
		}
	}

	if txn.CustomerID != "" && txn.PointsUsed > 0 {
		if err := redeemPoints(ctx, txn.CustomerID, txn.PointsUsed, txn.TransactionID); err != nil {
			log.Printf("⚠️ Point redemption write failed for %s: %v", txn.TransactionID, err)
		}
	}
}

// redeemPoints appends the minus entry for points spent on a sale.
func redeemPoints(ctx context.Context, customerID string, amount float64, txnCode string) error {
	entry := models.PointTransaction{
		Amount:        amount,
		Type:          models.PointMinus,
		Reason:        "Redeemed on " + txnCode,
		TransactionID: txnCode,
		Timestamp:     time.Now(),
	}
	_, err := database.CustomerCollection.UpdateOne(
		ctx,
		bson.M{"customerId": customerID},
		bson.M{"$push": bson.M{"points": entry}},
	)
	return err
}

// loadCategoryRules collects category-level cashback rules for the engine.
// Missing or broken rules just mean no category fallback.
func loadCategoryRules(ctx context.Context) cashback.CategoryRules {
	rules := cashback.CategoryRules{}

	cursor, err := database.CategoryCollection.Find(ctx, bson.M{"cashbackEnabled": true})
	if err != nil {
		log.Printf("⚠️ Could not load category cashback rules: %v", err)
		return rules
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		log.Printf("⚠️ Could not decode category cashback rules: %v", err)
		return rules
	}

	for _, cat := range categories {
		rules[cat.ID.Hex()] = cashback.Rule{
			Type:        cat.CashbackType,
			Value:       cat.CashbackValue,
			MinPurchase: cat.CashbackMinPurchase,
		}
	}
	return rules
}
