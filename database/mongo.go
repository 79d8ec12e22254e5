package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client

var (
	UserCollection          *mongo.Collection
	CategoryCollection      *mongo.Collection
	SubcategoryCollection   *mongo.Collection
	ProductCollection       *mongo.Collection
	CustomerCollection      *mongo.Collection
	TransactionCollection   *mongo.Collection
	StockMovementCollection *mongo.Collection
	PendingPointsCollection *mongo.Collection
	CryptoPaymentCollection *mongo.Collection
	SettingsCollection      *mongo.Collection
	DailyVisitCollection    *mongo.Collection
	PrerollCollection       *mongo.Collection
	CategoryOrderCollection *mongo.Collection
	NonMemberCollection     *mongo.Collection
	CounterCollection       *mongo.Collection
)

func Connect(uri string, dbName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal(err)
	}

	Client = client
	db := client.Database(dbName)
	UserCollection = db.Collection("users")
	CategoryCollection = db.Collection("categories")
	SubcategoryCollection = db.Collection("subcategories")
	ProductCollection = db.Collection("products")
	CustomerCollection = db.Collection("customers")
	TransactionCollection = db.Collection("transactions")
	StockMovementCollection = db.Collection("StockMovement")
	PendingPointsCollection = db.Collection("pendingPoints")
	CryptoPaymentCollection = db.Collection("crypto_payments")
	SettingsCollection = db.Collection("settings")
	DailyVisitCollection = db.Collection("dailyVisits")
	PrerollCollection = db.Collection("prerollsSpecial")
	CategoryOrderCollection = db.Collection("CategoryOrder")
	NonMemberCollection = db.Collection("NonMemberCategories")
	CounterCollection = db.Collection("counters")
}

// NextSequence atomically increments and returns the named counter. Used for
// the human-readable transaction codes.
func NextSequence(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := CounterCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// NextTransactionID reserves the next sequential sale code, e.g. "TXN-000042".
func NextTransactionID(ctx context.Context) (string, error) {
	seq, err := NextSequence(ctx, "transactions")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN-%06d", seq), nil
}
