package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Preroll is one cell of the quality x strain x size matrix sold on the
// prerolls special page.
type Preroll struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Quality     string             `bson:"quality" json:"quality"`
	Strain      string             `bson:"strain" json:"strain"`
	Size        string             `bson:"size" json:"size"`
	Price       float64            `bson:"price" json:"price"`
	MemberPrice float64            `bson:"memberPrice,omitempty" json:"memberPrice,omitempty"`
	POSItemID   string             `bson:"posItemId,omitempty" json:"posItemId,omitempty"`
	Available   bool               `bson:"available" json:"available"`
}
