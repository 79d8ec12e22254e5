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

// GetProductsHandler lists products, optionally filtered by category or
// subcategory.
func GetProductsHandler(c *gin.Context) {
	filter := bson.M{}
	if catID := c.Query("categoryId"); catID != "" {
		objID, err := primitive.ObjectIDFromHex(catID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid categoryId"})
			return
		}
		filter["categoryId"] = objID
	}
	if subID := c.Query("subcategoryId"); subID != "" {
		objID, err := primitive.ObjectIDFromHex(subID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subcategoryId"})
			return
		}
		filter["subcategoryId"] = objID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.ProductCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func GetProductHandler(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func CreateProductHandler(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if product.Name == "" || product.CategoryID.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and categoryId are required"})
		return
	}
	if product.CashbackEnabled && product.CashbackType != models.CashbackPercentage && product.CashbackType != models.CashbackFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cashbackType must be percentage or fixed"})
		return
	}
	product.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.ProductCollection.InsertOne(ctx, product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func UpdateProductHandler(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var input struct {
		Name                *string              `json:"name"`
		Image               *string              `json:"image"`
		Price               *float64             `json:"price"`
		MemberPrice         *float64             `json:"memberPrice"`
		HasVariants         *bool                `json:"hasVariants"`
		Variants            *[]models.Variant    `json:"variants"`
		CashbackEnabled     *bool                `json:"cashbackEnabled"`
		CashbackType        *models.CashbackType `json:"cashbackType"`
		CashbackValue       *float64             `json:"cashbackValue"`
		CashbackMinPurchase *float64             `json:"cashbackMinPurchase"`
		AlertKioskLevel     *float64             `json:"alertKioskLevel"`
		POSItemID           *string              `json:"posItemId"`
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
	if input.Price != nil {
		update["price"] = *input.Price
	}
	if input.MemberPrice != nil {
		update["memberPrice"] = *input.MemberPrice
	}
	if input.HasVariants != nil {
		update["hasVariants"] = *input.HasVariants
	}
	if input.Variants != nil {
		update["variants"] = *input.Variants
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
	if input.AlertKioskLevel != nil {
		update["alertKioskLevel"] = *input.AlertKioskLevel
	}
	if input.POSItemID != nil {
		update["posItemId"] = *input.POSItemID
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.ProductCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

func DeleteProductHandler(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.ProductCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// GetPrerollsHandler lists the preroll matrix for the special page.
func GetPrerollsHandler(c *gin.Context) {
	filter := bson.M{}
	if c.Query("available") == "true" {
		filter["available"] = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.PrerollCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prerolls"})
		return
	}
	defer cursor.Close(ctx)

	var prerolls []models.Preroll
	if err := cursor.All(ctx, &prerolls); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode prerolls"})
		return
	}
	if prerolls == nil {
		prerolls = []models.Preroll{}
	}
	c.JSON(http.StatusOK, prerolls)
}

func UpsertPrerollHandler(c *gin.Context) {
	var preroll models.Preroll
	if err := c.ShouldBindJSON(&preroll); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if preroll.Quality == "" || preroll.Strain == "" || preroll.Size == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quality, strain and size are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// One document per matrix cell.
	filter := bson.M{"quality": preroll.Quality, "strain": preroll.Strain, "size": preroll.Size}
	update := bson.M{"$set": bson.M{
		"price":       preroll.Price,
		"memberPrice": preroll.MemberPrice,
		"posItemId":   preroll.POSItemID,
		"available":   preroll.Available,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := database.PrerollCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preroll"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preroll saved"})
}
