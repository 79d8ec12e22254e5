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
)

// GetCustomerByCodeHandler resolves the member code typed at the kiosk. The
// response carries the folded point total alongside the ledger.
func GetCustomerByCodeHandler(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Member code is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var customer models.Customer
	if err := database.CustomerCollection.FindOne(ctx, bson.M{"customerId": code}).Decode(&customer); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer":    customer,
		"totalPoints": customer.TotalPoints(),
	})
}

func GetCustomersHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.CustomerCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode customers"})
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

func CreateCustomerHandler(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if customer.CustomerID == "" || customer.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId and name are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.Customer
	if err := database.CustomerCollection.FindOne(ctx, bson.M{"customerId": customer.CustomerID}).Decode(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Member code already in use"})
		return
	}

	customer.ID = primitive.NewObjectID()
	customer.Points = []models.PointTransaction{}
	customer.CreatedAt = time.Now()

	if _, err := database.CustomerCollection.InsertOne(ctx, customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// AdjustPointsHandler appends a point transaction to a customer's ledger.
// Subtractions are rejected when the fold would go negative: the check and
// the append both happen against the freshly-read document.
func AdjustPointsHandler(c *gin.Context) {
	code := c.Param("code")

	var input struct {
		Amount        float64          `json:"amount"`
		Type          models.PointType `json:"type"`
		Reason        string           `json:"reason"`
		TransactionID string           `json:"transactionId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}
	if input.Type != models.PointAdded && input.Type != models.PointMinus {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type must be added or minus"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var customer models.Customer
	if err := database.CustomerCollection.FindOne(ctx, bson.M{"customerId": code}).Decode(&customer); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	if input.Type == models.PointMinus && !customer.CanRedeem(input.Amount) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Not enough points",
			"totalPoints": customer.TotalPoints(),
		})
		return
	}

	entry := models.PointTransaction{
		Amount:        input.Amount,
		Type:          input.Type,
		Reason:        input.Reason,
		TransactionID: input.TransactionID,
		Timestamp:     time.Now(),
	}

	if _, err := database.CustomerCollection.UpdateOne(
		ctx,
		bson.M{"_id": customer.ID},
		bson.M{"$push": bson.M{"points": entry}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update points"})
		return
	}

	customer.Points = append(customer.Points, entry)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Points updated",
		"totalPoints": customer.TotalPoints(),
	})
}
