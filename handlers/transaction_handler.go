package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"kioskpos-backend/database"
	"kioskpos-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetTransactionsHandler lists sales for the POS app, newest first, with
// optional status and date filters (?status=completed&date=YYYY-MM-DD).
func GetTransactionsHandler(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if dateParam := c.Query("date"); dateParam != "" {
		parsedDate, err := time.Parse("2006-01-02", dateParam)
		if err == nil {
			nextDay := parsedDate.Add(24 * time.Hour)
			filter["createdAt"] = bson.M{
				"$gte": parsedDate,
				"$lt":  nextDay,
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.TransactionCollection.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode transactions"})
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

func GetTransactionHandler(c *gin.Context) {
	code := c.Param("code")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var txn models.Transaction
	if err := database.TransactionCollection.FindOne(ctx, bson.M{"transactionId": code}).Decode(&txn); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, txn)
}

// RefundTransactionHandler flips a completed sale to refunded. The record
// itself stays untouched beyond the status; stock comes back as purchasing
// movements and any still-open pending points are discarded, both
// best-effort.
func RefundTransactionHandler(c *gin.Context) {
	code := c.Param("code")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var txn models.Transaction
	if err := database.TransactionCollection.FindOne(ctx, bson.M{"transactionId": code}).Decode(&txn); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if txn.Status != models.TransactionCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only completed transactions can be refunded"})
		return
	}

	result, err := database.TransactionCollection.UpdateOne(
		ctx,
		bson.M{"transactionId": code, "status": models.TransactionCompleted},
		bson.M{"$set": bson.M{"status": models.TransactionRefunded}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refund transaction"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Transaction already refunded"})
		return
	}

	for _, item := range txn.Items {
		if item.ProductID == "" {
			continue
		}
		movement := models.StockMovement{
			ID:            primitive.NewObjectID(),
			ProductID:     item.ProductID,
			VariantID:     item.VariantOption,
			Quantity:      float64(item.Quantity),
			Status:        models.MovementPurchasing,
			TransactionID: txn.TransactionID,
			Reason:        "refund",
			CreatedAt:     time.Now(),
		}
		if _, err := database.StockMovementCollection.InsertOne(ctx, movement); err != nil {
			log.Printf("⚠️ Refund stock restore failed for %s/%s: %v", item.ProductID, item.VariantOption, err)
		}
	}

	now := time.Now()
	if _, err := database.PendingPointsCollection.UpdateMany(
		ctx,
		bson.M{"transactionId": code, "status": models.PendingPointsOpen},
		bson.M{"$set": bson.M{"status": models.PendingPointsDiscarded, "resolvedAt": now}},
	); err != nil {
		log.Printf("⚠️ Could not discard pending points for %s: %v", code, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction refunded"})
}
