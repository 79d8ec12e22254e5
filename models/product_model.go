package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type CashbackType string

const (
	CashbackPercentage CashbackType = "percentage"
	CashbackFixed      CashbackType = "fixed"
)

// VariantOption is one selectable option inside a named variant group, with
// its own pricing and image.
type VariantOption struct {
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	MemberPrice float64 `bson:"memberPrice,omitempty" json:"memberPrice,omitempty"`
	Image       string  `bson:"image,omitempty" json:"image,omitempty"`
}

type Variant struct {
	Name    string          `bson:"name" json:"name"`
	Options []VariantOption `bson:"options" json:"options"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID     string             `bson:"productId" json:"productId"` // display code shown on the kiosk
	CategoryID    primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	SubcategoryID primitive.ObjectID `bson:"subcategoryId,omitempty" json:"subcategoryId,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	MemberPrice   float64            `bson:"memberPrice,omitempty" json:"memberPrice,omitempty"`
	HasVariants   bool               `bson:"hasVariants" json:"hasVariants"`
	Variants      []Variant          `bson:"variants,omitempty" json:"variants,omitempty"`

	CashbackEnabled     bool         `bson:"cashbackEnabled" json:"cashbackEnabled"`
	CashbackType        CashbackType `bson:"cashbackType,omitempty" json:"cashbackType,omitempty"`
	CashbackValue       float64      `bson:"cashbackValue,omitempty" json:"cashbackValue,omitempty"`
	CashbackMinPurchase float64      `bson:"cashbackMinPurchase,omitempty" json:"cashbackMinPurchase,omitempty"`

	Quantity        float64 `bson:"quantity" json:"quantity"`
	AlertKioskLevel float64 `bson:"alertKioskLevel,omitempty" json:"alertKioskLevel,omitempty"`
	POSItemID       string  `bson:"posItemId,omitempty" json:"posItemId,omitempty"` // links to the external POS stock item
}

// UnitPrice returns the price tier for the given membership state. A missing
// member price falls back to the regular price.
func (p Product) UnitPrice(member bool) float64 {
	if member && p.MemberPrice > 0 {
		return p.MemberPrice
	}
	return p.Price
}
