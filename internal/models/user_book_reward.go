package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserBookReward is the one-row-per-(user, book) reward ledger entry.
// HasReceivedReward transitions false to true at most once; after that no
// further payment may be granted for the pair, whatever later sessions do.
// The collection carries a unique compound index on (userId, bookId).
type UserBookReward struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	BookID            primitive.ObjectID `bson:"bookId" json:"bookId"`
	HasReceivedReward bool               `bson:"hasReceivedReward" json:"hasReceivedReward"`
	ReadingAttempts   int                `bson:"readingAttempts" json:"readingAttempts"`
	FraudAttempts     int                `bson:"fraudAttempts" json:"fraudAttempts"`
	ValidReadingDate  *time.Time         `bson:"validReadingDate,omitempty" json:"validReadingDate,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
