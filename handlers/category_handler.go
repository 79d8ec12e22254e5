package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"kioskpos-backend/database"
	"kioskpos-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetCategoriesHandler lists the categories for the kiosk menu. The
// admin-defined CategoryOrder document wins over the per-category sortOrder,
// and non-members only see the allow-listed categories (?member=false).
func GetCategoriesHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.CategoryCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode categories"})
		return
	}

	if c.Query("member") == "false" {
		var allowed models.NonMemberCategories
		if err := database.NonMemberCollection.FindOne(ctx, bson.M{}).Decode(&allowed); err == nil {
			visible := make(map[primitive.ObjectID]bool, len(allowed.CategoryIDs))
			for _, id := range allowed.CategoryIDs {
				visible[id] = true
			}
			filtered := categories[:0]
			for _, cat := range categories {
				if visible[cat.ID] {
					filtered = append(filtered, cat)
				}
			}
			categories = filtered
		}
	}

	var order models.CategoryOrder
	if err := database.CategoryOrderCollection.FindOne(ctx, bson.M{}).Decode(&order); err == nil && len(order.CategoryIDs) > 0 {
		rank := make(map[primitive.ObjectID]int, len(order.CategoryIDs))
		for i, id := range order.CategoryIDs {
			rank[id] = i
		}
		sort.SliceStable(categories, func(i, j int) bool {
			ri, iOK := rank[categories[i].ID]
			rj, jOK := rank[categories[j].ID]
			if iOK != jOK {
				return iOK // ordered ones first
			}
			if !iOK {
				return categories[i].SortOrder < categories[j].SortOrder
			}
			return ri < rj
		})
	} else {
		sort.SliceStable(categories, func(i, j int) bool {
			return categories[i].SortOrder < categories[j].SortOrder
		})
	}

	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func CreateCategoryHandler(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if category.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	category.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.CategoryCollection.InsertOne(ctx, category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func UpdateCategoryHandler(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var input struct {
		Name            *string             `json:"name"`
		Image           *string             `json:"image"`
		BackgroundImage *string             `json:"backgroundImage"`
		BackgroundFit   *string             `json:"backgroundFit"`
		TextColor       *string             `json:"textColor"`
		SpecialPage     *models.SpecialPage `json:"specialPage"`
		SortOrder       *int                `json:"sortOrder"`

		CashbackEnabled     *bool                `json:"cashbackEnabled"`
		CashbackType        *models.CashbackType `json:"cashbackType"`
		CashbackValue       *float64             `json:"cashbackValue"`
		CashbackMinPurchase *float64             `json:"cashbackMinPurchase"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	update := bson.M{}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Image != nil {
		update["image"] = *input.Image
	}
	if input.BackgroundImage != nil {
		update["backgroundImage"] = *input.BackgroundImage
	}
	if input.BackgroundFit != nil {
		update["backgroundFit"] = *input.BackgroundFit
	}
	if input.TextColor != nil {
		update["textColor"] = *input.TextColor
	}
	if input.SpecialPage != nil {
		update["specialPage"] = *input.SpecialPage
	}
	if input.SortOrder != nil {
		update["sortOrder"] = *input.SortOrder
	}
	if input.CashbackEnabled != nil {
		update["cashbackEnabled"] = *input.CashbackEnabled
	}
	if input.CashbackType != nil {
		update["cashbackType"] = *input.CashbackType
	}
	if input.CashbackValue != nil {
		update["cashbackValue"] = *input.CashbackValue
	}
	if input.CashbackMinPurchase != nil {
		update["cashbackMinPurchase"] = *input.CashbackMinPurchase
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.CategoryCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

func DeleteCategoryHandler(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.CategoryCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// GetSubcategoriesHandler lists subcategories, optionally for one category
// (?categoryId=...).
func GetSubcategoriesHandler(c *gin.Context) {
	filter := bson.M{}
	if catID := c.Query("categoryId"); catID != "" {
		objID, err := primitive.ObjectIDFromHex(catID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid categoryId"})
			return
		}
		filter["categoryId"] = objID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.SubcategoryCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subcategories"})
		return
	}
	defer cursor.Close(ctx)

	var subcategories []models.Subcategory
	if err := cursor.All(ctx, &subcategories); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode subcategories"})
		return
	}

	sort.SliceStable(subcategories, func(i, j int) bool {
		return subcategories[i].SortOrder < subcategories[j].SortOrder
	})

	if subcategories == nil {
		subcategories = []models.Subcategory{}
	}
	c.JSON(http.StatusOK, subcategories)
}

func CreateSubcategoryHandler(c *gin.Context) {
	var sub models.Subcategory
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if sub.Name == "" || sub.CategoryID.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and categoryId are required"})
		return
	}
	sub.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.SubcategoryCollection.InsertOne(ctx, sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subcategory"})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func DeleteSubcategoryHandler(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.SubcategoryCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subcategory"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subcategory deleted"})
}
