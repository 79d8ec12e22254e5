package handlers

import (
	"context"
	"net/http"
	"time"

	"kioskpos-backend/database"
	"kioskpos-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetPendingPointsHandler lists the approval queue for the POS app, open
// entries first unless filtered (?status=pending).
func GetPendingPointsHandler(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.PendingPointsCollection.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending points"})
		return
	}
	defer cursor.Close(ctx)

	var entries []models.PendingPoints
	if err := cursor.All(ctx, &entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode pending points"})
		return
	}
	if entries == nil {
		entries = []models.PendingPoints{}
	}
	c.JSON(http.StatusOK, entries)
}

// ApprovePendingPointsHandler applies an open entry to the customer ledger.
// The open-status filter on the flip makes double approval a no-op.
func ApprovePendingPointsHandler(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var entry models.PendingPoints
	if err := database.PendingPointsCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&entry); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	now := time.Now()
	result, err := database.PendingPointsCollection.UpdateOne(
		ctx,
		bson.M{"_id": objID, "status": models.PendingPointsOpen},
		bson.M{"$set": bson.M{"status": models.PendingPointsApproved, "resolvedAt": now}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve entry"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Entry already resolved"})
		return
	}

	ledgerEntry := models.PointTransaction{
		Amount:        entry.Amount,
		Type:          models.PointAdded,
		Reason:        entry.Reason,
		TransactionID: entry.TransactionID,
		Timestamp:     now,
	}
	if _, err := database.CustomerCollection.UpdateOne(
		ctx,
		bson.M{"customerId": entry.CustomerID},
		bson.M{"$push": bson.M{"points": ledgerEntry}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Approved but ledger write failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Points applied"})
}

// DiscardPendingPointsHandler resolves an entry without touching the ledger.
func DiscardPendingPointsHandler(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	result, err := database.PendingPointsCollection.UpdateOne(
		ctx,
		bson.M{"_id": objID, "status": models.PendingPointsOpen},
		bson.M{"$set": bson.M{"status": models.PendingPointsDiscarded, "resolvedAt": now}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to discard entry"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Entry already resolved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry discarded"})
}
