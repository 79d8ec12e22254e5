package handlers

import (
	"context"
	"net/http"
	"time"

	"kioskpos-backend/database"
	"kioskpos-backend/models"
	"kioskpos-backend/session"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetSettingsHandler returns the kiosk settings document (zero-value
// defaults when none exists yet).
func GetSettingsHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var settings models.Settings
	if err := database.SettingsCollection.FindOne(ctx, bson.M{}).Decode(&settings); err != nil {
		settings = models.Settings{}
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettingsHandler upserts the settings document and pushes the idle
// override into the live session manager.
func UpdateSettingsHandler(c *gin.Context) {
	var input models.Settings
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"kioskName":           input.KioskName,
		"defaultLanguage":     input.DefaultLanguage,
		"idleTimeoutSeconds":  input.IdleTimeoutSeconds,
		"graceTimeoutSeconds": input.GraceTimeoutSeconds,
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := database.SettingsCollection.UpdateOne(ctx, bson.M{}, update, opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	ApplySessionTimeouts(input)
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}

// ApplySessionTimeouts maps the settings override onto the session manager.
// Zero values fall back to the manager defaults.
func ApplySessionTimeouts(settings models.Settings) {
	Sessions.SetTimeouts(session.Timeouts{
		Idle:     time.Duration(settings.IdleTimeoutSeconds) * time.Second,
		CartIdle: time.Duration(settings.IdleTimeoutSeconds) * time.Second,
		Grace:    time.Duration(settings.GraceTimeoutSeconds) * time.Second,
	})
}

// GetDailyVisitsHandler lists visit counters, newest day first.
func GetDailyVisitsHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := database.DailyVisitCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch visits"})
		return
	}
	defer cursor.Close(ctx)

	var visits []models.DailyVisit
	if err := cursor.All(ctx, &visits); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode visits"})
		return
	}
	if visits == nil {
		visits = []models.DailyVisit{}
	}
	c.JSON(http.StatusOK, visits)
}

// SetCategoryOrderHandler replaces the admin-defined category ordering.
func SetCategoryOrderHandler(c *gin.Context) {
	var input struct {
		CategoryIDs []string `json:"categoryIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(input.CategoryIDs))
	for _, raw := range input.CategoryIDs {
		objID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID: " + raw})
			return
		}
		ids = append(ids, objID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	if _, err := database.CategoryOrderCollection.UpdateOne(
		ctx,
		bson.M{},
		bson.M{"$set": bson.M{"categoryIds": ids}},
		opts,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save category order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category order saved"})
}

// SetNonMemberCategoriesHandler replaces the category allow-list for
// unidentified customers.
func SetNonMemberCategoriesHandler(c *gin.Context) {
	var input struct {
		CategoryIDs []string `json:"categoryIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(input.CategoryIDs))
	for _, raw := range input.CategoryIDs {
		objID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID: " + raw})
			return
		}
		ids = append(ids, objID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	if _, err := database.NonMemberCollection.UpdateOne(
		ctx,
		bson.M{},
		bson.M{"$set": bson.M{"categoryIds": ids}},
		opts,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save non-member categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Non-member categories saved"})
}
