package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"kioskpos-backend/config"
	"kioskpos-backend/database"
	"kioskpos-backend/gateway"
	"kioskpos-backend/handlers"
	"kioskpos-backend/middleware"
	"kioskpos-backend/models"
	"kioskpos-backend/pos"
	"kioskpos-backend/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" {
		if err := godotenv.Load(".env.development"); err != nil {
			log.Println("⚠️ Could not load .env.development, using system environment")
		}
	} else {
		if err := godotenv.Load(".env.production"); err != nil {
			log.Println("⚠️ Could not load .env.production, using system environment")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	middleware.LoadSecret()

	database.Connect(cfg.Mongo.URI, cfg.Mongo.Name)

	sessions := session.NewManager(session.Timeouts{
		Idle:     cfg.Kiosk.IdleTimeout,
		CartIdle: cfg.Kiosk.CartIdleTimeout,
		Grace:    cfg.Kiosk.GraceTimeout,
	})
	gatewayClient := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.IPNSecret)
	posClient := pos.NewClient(cfg.POS.BaseURL, cfg.POS.APIKey)

	handlers.Init(sessions, gatewayClient, posClient, cfg.Admin.SecretKey)

	// The stored settings document overrides the env defaults.
	applyStoredSettings()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.Run(ctx, 30*time.Second)
	go handlers.RunCryptoPoller(ctx, 5*time.Second)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"POST", "GET", "OPTIONS", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", "X-Admin-Secret"},
		AllowCredentials: true,
	}))

	router.POST("/login", handlers.LoginHandler)
	router.POST("/logout", handlers.LogoutHandler)
	router.GET("/auth/me", handlers.AuthMeHandler(database.UserCollection))
	router.POST("/admin/create-user", handlers.AdminCreateUserHandler)

	// Webhooks
	router.POST("/webhooks/crypto", handlers.CryptoCallbackHandler)

	// Kiosk-facing routes. The kiosk never authenticates; sessions are its
	// only state.
	kiosk := router.Group("/kiosk")
	{
		kiosk.GET("/categories", handlers.GetCategoriesHandler)
		kiosk.GET("/subcategories", handlers.GetSubcategoriesHandler)
		kiosk.GET("/products", handlers.GetProductsHandler)
		kiosk.GET("/products/:id", handlers.GetProductHandler)
		kiosk.GET("/products/:id/stock", handlers.CheckPOSStockHandler)
		kiosk.GET("/prerolls", handlers.GetPrerollsHandler)
		kiosk.GET("/customers/:code", handlers.GetCustomerByCodeHandler)

		kiosk.POST("/sessions", handlers.StartSessionHandler)
		kiosk.GET("/sessions/:id", handlers.GetSessionHandler)
		kiosk.POST("/sessions/:id/touch", handlers.TouchSessionHandler)
		kiosk.POST("/sessions/:id/exit", handlers.ExitSessionHandler)
		kiosk.POST("/sessions/:id/cart/open", handlers.OpenCartHandler)
		kiosk.POST("/sessions/:id/cart/close", handlers.CloseCartHandler)
		kiosk.POST("/sessions/:id/cart/items", handlers.AddCartItemHandler)
		kiosk.POST("/sessions/:id/cart/joint", handlers.AddJointHandler)
		kiosk.PUT("/sessions/:id/cart/items", handlers.UpdateCartItemHandler)
		kiosk.DELETE("/sessions/:id/cart", handlers.ClearCartHandler)
		kiosk.POST("/sessions/:id/customer", handlers.SetSessionCustomerHandler)
		kiosk.POST("/sessions/:id/payment-method", handlers.SetSessionPaymentMethodHandler)

		kiosk.POST("/checkout", handlers.CheckoutHandler)

		kiosk.GET("/crypto/currencies", handlers.GetCryptoCurrenciesHandler)
		kiosk.GET("/crypto/min-amount", handlers.GetCryptoMinAmountHandler)
		kiosk.GET("/crypto/payment/:id", handlers.GetCryptoPaymentHandler)
	}

	// Admin/POS routes, JWT-guarded.
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.POST("/categories", handlers.CreateCategoryHandler)
		admin.PUT("/categories/:id", handlers.UpdateCategoryHandler)
		admin.DELETE("/categories/:id", handlers.DeleteCategoryHandler)
		admin.POST("/subcategories", handlers.CreateSubcategoryHandler)
		admin.DELETE("/subcategories/:id", handlers.DeleteSubcategoryHandler)
		admin.POST("/products", handlers.CreateProductHandler)
		admin.PUT("/products/:id", handlers.UpdateProductHandler)
		admin.DELETE("/products/:id", handlers.DeleteProductHandler)
		admin.PUT("/prerolls", handlers.UpsertPrerollHandler)

		admin.GET("/customers", handlers.GetCustomersHandler)
		admin.POST("/customers", handlers.CreateCustomerHandler)
		admin.POST("/customers/:code/points", handlers.AdjustPointsHandler)

		admin.GET("/transactions", handlers.GetTransactionsHandler)
		admin.GET("/transactions/:code", handlers.GetTransactionHandler)
		admin.POST("/transactions/:code/refund", handlers.RefundTransactionHandler)

		admin.GET("/stock/movements", handlers.GetStockMovementsHandler)
		admin.POST("/stock/movements", handlers.CreateStockMovementHandler)
		admin.GET("/stock/current", handlers.GetCurrentStockHandler)

		admin.GET("/pending-points", handlers.GetPendingPointsHandler)
		admin.POST("/pending-points/:id/approve", handlers.ApprovePendingPointsHandler)
		admin.POST("/pending-points/:id/discard", handlers.DiscardPendingPointsHandler)

		admin.GET("/settings", handlers.GetSettingsHandler)
		admin.PUT("/settings", handlers.UpdateSettingsHandler)
		admin.GET("/daily-visits", handlers.GetDailyVisitsHandler)
		admin.PUT("/category-order", handlers.SetCategoryOrderHandler)
		admin.PUT("/non-member-categories", handlers.SetNonMemberCategoriesHandler)
	}

	fmt.Printf("🚀 Kiosk backend running in %s mode on http://localhost:%d\n", env, cfg.App.Port)
	router.Run(fmt.Sprintf(":%d", cfg.App.Port))
}

// applyStoredSettings pushes the persisted kiosk settings into the session
// manager at boot.
func applyStoredSettings() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var settings models.Settings
	if err := database.SettingsCollection.FindOne(ctx, bson.M{}).Decode(&settings); err != nil {
		return
	}
	handlers.ApplySessionTimeouts(settings)
}
