package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Settings is a single document of kiosk-wide knobs editable from the admin
// app. Zero values mean "use the built-in default".
type Settings struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	KioskName           string             `bson:"kioskName,omitempty" json:"kioskName,omitempty"`
	DefaultLanguage     string             `bson:"defaultLanguage,omitempty" json:"defaultLanguage,omitempty"`
	IdleTimeoutSeconds  int                `bson:"idleTimeoutSeconds,omitempty" json:"idleTimeoutSeconds,omitempty"`
	GraceTimeoutSeconds int                `bson:"graceTimeoutSeconds,omitempty" json:"graceTimeoutSeconds,omitempty"`
}

// DailyVisit counts kiosk sessions per calendar day. Date is "YYYY-MM-DD".
type DailyVisit struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date  string             `bson:"date" json:"date"`
	Count int64              `bson:"count" json:"count"`
}
