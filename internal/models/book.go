package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book publication status
const (
	BookStatusDraft     = "DRAFT"
	BookStatusPublished = "PUBLISHED"
)

// Book represents a readable title. BaseRewardMoney is in centavos.
// ReviewsCount and RatingSum are running aggregates maintained with atomic
// increments; AverageRating is derived from them after each new review.
// Content is the full book text: served on the detail endpoint, projected
// out of listings.
type Book struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title             string             `bson:"title" json:"title"`
	Author            string             `bson:"author" json:"author"`
	Synopsis          string             `bson:"synopsis,omitempty" json:"synopsis,omitempty"`
	Content           string             `bson:"content,omitempty" json:"content,omitempty"`
	WordCount         int                `bson:"wordCount" json:"wordCount"`
	BaseRewardMoney   int64              `bson:"baseRewardMoney" json:"baseRewardMoney"`
	RewardPoints      int                `bson:"rewardPoints" json:"rewardPoints"`
	PremiumMultiplier int64              `bson:"premiumMultiplier" json:"premiumMultiplier"`
	RequiredLevel     int                `bson:"requiredLevel" json:"requiredLevel"`
	IsInitialBook     bool               `bson:"isInitialBook" json:"isInitialBook"`
	Status            string             `bson:"status" json:"status"`
	ReviewsCount      int                `bson:"reviewsCount" json:"reviewsCount"`
	RatingSum         int64              `bson:"ratingSum" json:"-"`
	AverageRating     float64            `bson:"averageRating" json:"averageRating"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
