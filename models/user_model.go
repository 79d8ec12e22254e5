package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a POS staff account. Kiosk customers never log in; they identify
// with their member code only.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"password"`
	Username string             `bson:"username" json:"username"`
	Role     string             `bson:"role,omitempty" json:"role,omitempty"`
	Language string             `bson:"language,omitempty" json:"language,omitempty"`
}
