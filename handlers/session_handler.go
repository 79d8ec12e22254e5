package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"kioskpos-backend/database"
	"kioskpos-backend/joint"
	"kioskpos-backend/models"
	"kioskpos-backend/session"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, session.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Session expired"})
	case errors.Is(err, session.ErrBadItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// StartSessionHandler opens a kiosk session and counts the visit.
func StartSessionHandler(c *gin.Context) {
	snap := Sessions.Start()

	go countDailyVisit()

	c.JSON(http.StatusCreated, snap)
}

// countDailyVisit bumps today's visit counter, best-effort.
func countDailyVisit() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	today := time.Now().Format("2006-01-02")
	opts := options.Update().SetUpsert(true)
	if _, err := database.DailyVisitCollection.UpdateOne(
		ctx,
		bson.M{"date": today},
		bson.M{"$inc": bson.M{"count": 1}},
		opts,
	); err != nil {
		log.Printf("⚠️ Daily visit count failed: %v", err)
	}
}

// GetSessionHandler reads the session state without counting as an
// interaction, so the kiosk can poll it for the countdown display.
func GetSessionHandler(c *gin.Context) {
	snap, err := Sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// TouchSessionHandler records a user interaction. Doubling as the
// "continue" action on the expiry warning.
func TouchSessionHandler(c *gin.Context) {
	snap, err := Sessions.Touch(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ExitSessionHandler ends the session immediately.
func ExitSessionHandler(c *gin.Context) {
	if err := Sessions.Exit(c.Param("id")); err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}

func OpenCartHandler(c *gin.Context) {
	snap, err := Sessions.OpenCart(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func CloseCartHandler(c *gin.Context) {
	snap, err := Sessions.CloseCart(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// AddCartItemHandler appends a line to the session cart. The kiosk sends the
// already-priced item (simple, variant or preroll); joints go through
// AddJointHandler instead.
func AddCartItemHandler(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if item.Kind == "" {
		item.Kind = models.CartItemSimple
	}
	if item.Kind == models.CartItemJoint {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Joints must go through the builder endpoint"})
		return
	}

	snap, err := Sessions.AddItem(c.Param("id"), item)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// AddJointHandler validates a finished builder config and adds it to the
// cart with its derived price.
func AddJointHandler(c *gin.Context) {
	var input struct {
		Config   joint.Config `json:"config"`
		Quantity int          `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	if errs := joint.Validate(input.Config); len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, err := range errs {
			messages = append(messages, err.Error())
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid joint configuration", "violations": messages})
		return
	}

	item := models.CartItem{
		Kind:      models.CartItemJoint,
		Name:      "Custom joint",
		UnitPrice: joint.TotalPrice(input.Config),
		Quantity:  input.Quantity,
	}

	snap, err := Sessions.AddItem(c.Param("id"), item)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateCartItemHandler changes a line's quantity; zero removes it.
func UpdateCartItemHandler(c *gin.Context) {
	var input struct {
		Index    int `json:"index"`
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	snap, err := Sessions.SetQuantity(c.Param("id"), input.Index, input.Quantity)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func ClearCartHandler(c *gin.Context) {
	snap, err := Sessions.ClearCart(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SetSessionCustomerHandler stores the member code once it has been
// validated against the customers collection.
func SetSessionCustomerHandler(c *gin.Context) {
	var input struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Member code is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var customer models.Customer
	if err := database.CustomerCollection.FindOne(ctx, bson.M{"customerId": input.Code}).Decode(&customer); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	snap, err := Sessions.SetCustomer(c.Param("id"), input.Code)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":     snap,
		"totalPoints": customer.TotalPoints(),
	})
}

func SetSessionPaymentMethodHandler(c *gin.Context) {
	var input struct {
		Method models.PaymentMethod `json:"method"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	switch input.Method {
	case models.PaymentCash, models.PaymentCard, models.PaymentCrypto:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	snap, err := Sessions.SetPaymentMethod(c.Param("id"), input.Method)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
