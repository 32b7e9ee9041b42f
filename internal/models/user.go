package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan tiers. FREE users are only paid for initial books; PREMIUM users are
// paid for every book, with the book's premium multiplier applied.
const (
	PlanFree    = "FREE"
	PlanPremium = "PREMIUM"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a reader account. Balance is held in centavos and, together
// with Points, is only ever mutated through atomic increment operations.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	PlanType  string             `bson:"planType" json:"planType"`
	Balance   int64              `bson:"balance" json:"balance"`
	Points    int                `bson:"points" json:"points"`
	Level     int                `bson:"level" json:"level"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
