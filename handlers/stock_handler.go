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

// CreateStockMovementHandler appends a ledger entry. Admin use: deliveries
// come in as purchasing, manual corrections as either direction.
func CreateStockMovementHandler(c *gin.Context) {
	var input struct {
		ProductID string                `json:"productId"`
		VariantID string                `json:"variantId"`
		Quantity  float64               `json:"quantity"`
		Status    models.MovementStatus `json:"status"`
		Reason    string                `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if input.ProductID == "" || input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId and a positive quantity are required"})
		return
	}
	if input.Status != models.MovementPurchasing && input.Status != models.MovementSales {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be purchasing or sales"})
		return
	}

	movement := models.StockMovement{
		ID:        primitive.NewObjectID(),
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
		Status:    input.Status,
		Reason:    input.Reason,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.StockMovementCollection.InsertOne(ctx, movement); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record movement"})
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// GetStockMovementsHandler lists the ledger, optionally for one product.
func GetStockMovementsHandler(c *gin.Context) {
	filter := bson.M{}
	if productID := c.Query("productId"); productID != "" {
		filter["productId"] = productID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.StockMovementCollection.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
		return
	}
	defer cursor.Close(ctx)

	var movements []models.StockMovement
	if err := cursor.All(ctx, &movements); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode movements"})
		return
	}
	if movements == nil {
		movements = []models.StockMovement{}
	}
	c.JSON(http.StatusOK, movements)
}

// GetCurrentStockHandler folds the ledger into current stock per
// product/variant bucket. The total is never stored anywhere.
func GetCurrentStockHandler(c *gin.Context) {
	filter := bson.M{}
	if productID := c.Query("productId"); productID != "" {
		filter["productId"] = productID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := database.StockMovementCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
		return
	}
	defer cursor.Close(ctx)

	var movements []models.StockMovement
	if err := cursor.All(ctx, &movements); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode movements"})
		return
	}

	stock := models.FoldStock(movements)

	type bucket struct {
		ProductID string  `json:"productId"`
		VariantID string  `json:"variantId,omitempty"`
		Quantity  float64 `json:"quantity"`
	}
	buckets := []bucket{}
	for key, qty := range stock {
		buckets = append(buckets, bucket{ProductID: key.ProductID, VariantID: key.VariantID, Quantity: qty})
	}
	c.JSON(http.StatusOK, buckets)
}

// CheckPOSStockHandler asks the external POS for an item's stock, falling
// back to the local ledger when no POS item is linked.
func CheckPOSStockHandler(c *gin.Context) {
	productID := c.Param("id")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var product models.Product
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if product.POSItemID != "" && POS.Enabled() {
		qty, err := POS.CheckStock(ctx, product.POSItemID)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"productId": productID,
				"quantity":  qty,
				"source":    "pos",
				"lowStock":  product.AlertKioskLevel > 0 && qty <= product.AlertKioskLevel,
			})
			return
		}
		log.Printf("⚠️ POS stock check failed for %s: %v", product.POSItemID, err)
	}

	cursor, err := database.StockMovementCollection.Find(ctx, bson.M{"productId": productID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
		return
	}
	defer cursor.Close(ctx)

	var movements []models.StockMovement
	if err := cursor.All(ctx, &movements); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode movements"})
		return
	}

	var qty float64
	for _, q := range models.FoldStock(movements) {
		qty += q
	}
	c.JSON(http.StatusOK, gin.H{
		"productId": productID,
		"quantity":  qty,
		"source":    "ledger",
		"lowStock":  product.AlertKioskLevel > 0 && qty <= product.AlertKioskLevel,
	})
}
