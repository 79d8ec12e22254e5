package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SpecialPage selects a dedicated kiosk flow for a category instead of the
// normal product grid.
type SpecialPage string

const (
	SpecialPageNone     SpecialPage = ""
	SpecialPageJoints   SpecialPage = "JOINTS"
	SpecialPagePrerolls SpecialPage = "PREROLLS"
)

type Category struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Image           string             `bson:"image,omitempty" json:"image,omitempty"`
	BackgroundImage string             `bson:"backgroundImage,omitempty" json:"backgroundImage,omitempty"`
	BackgroundFit   string             `bson:"backgroundFit,omitempty" json:"backgroundFit,omitempty"`
	TextColor       string             `bson:"textColor,omitempty" json:"textColor,omitempty"`
	SpecialPage     SpecialPage        `bson:"specialPage,omitempty" json:"specialPage,omitempty"`
	SortOrder       int                `bson:"sortOrder" json:"sortOrder"`

	// Category-level cashback fallback, used when a product carries no rule
	// of its own.
	CashbackEnabled     bool         `bson:"cashbackEnabled" json:"cashbackEnabled"`
	CashbackType        CashbackType `bson:"cashbackType,omitempty" json:"cashbackType,omitempty"`
	CashbackValue       float64      `bson:"cashbackValue,omitempty" json:"cashbackValue,omitempty"`
	CashbackMinPurchase float64      `bson:"cashbackMinPurchase,omitempty" json:"cashbackMinPurchase,omitempty"`
}

type Subcategory struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryID primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Name       string             `bson:"name" json:"name"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	SortOrder  int                `bson:"sortOrder" json:"sortOrder"`
}

// CategoryOrder is a single document holding the admin-defined ordering of
// category IDs for the kiosk menu.
type CategoryOrder struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CategoryIDs []primitive.ObjectID `bson:"categoryIds" json:"categoryIds"`
}

// NonMemberCategories is a single document listing the categories visible to
// customers that have not identified as members.
type NonMemberCategories struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CategoryIDs []primitive.ObjectID `bson:"categoryIds" json:"categoryIds"`
}
