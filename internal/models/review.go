package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is created once per completion call, regardless of the fraud
// verdict. DonationAmount is informational only and is not debited here.
type Review struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	BookID         primitive.ObjectID `bson:"bookId" json:"bookId"`
	Rating         int                `bson:"rating" json:"rating"`
	Comment        string             `bson:"comment,omitempty" json:"comment,omitempty"`
	DonationAmount int64              `bson:"donationAmount,omitempty" json:"donationAmount,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
