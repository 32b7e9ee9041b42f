package mongodb

import (
	"context"
	"time"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserBookRewardRepository implements the interface
var _ repositories.UserBookRewardRepository = (*UserBookRewardRepository)(nil)

// UserBookRewardRepository handles MongoDB operations for the per-(user, book)
// reward ledger. The collection should carry a unique index on
// (userId, bookId); EnsureIndexes creates it.
type UserBookRewardRepository struct {
	collection *mongo.Collection
}

// NewUserBookRewardRepository creates a new UserBookRewardRepository
func NewUserBookRewardRepository(db *mongo.Database) *UserBookRewardRepository {
	return &UserBookRewardRepository{
		collection: db.Collection("user_book_rewards"),
	}
}

// EnsureIndexes creates the unique compound index backing the ledger invariant
func (r *UserBookRewardRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "bookId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// RecordAttempt upserts the ledger row for the pair and increments the
// attempt counters. fraudAttempts moves only when the attempt was fraud.
func (r *UserBookRewardRepository) RecordAttempt(ctx context.Context, userID, bookID primitive.ObjectID, fraud bool) error {
	now := time.Now()
	inc := bson.M{"readingAttempts": 1}
	if fraud {
		inc["fraudAttempts"] = 1
	}
	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"hasReceivedReward": false,
			"createdAt":         now,
		},
	}
	filter := bson.M{"userId": userID, "bookId": bookID}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// ClaimReward flips the one-way payment latch. The filter demands
// hasReceivedReward=false, so at most one call per pair ever modifies the
// row; the returned boolean tells the caller whether it was this one.
func (r *UserBookRewardRepository) ClaimReward(ctx context.Context, userID, bookID primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{
		"userId":            userID,
		"bookId":            bookID,
		"hasReceivedReward": false,
	}
	update := bson.M{"$set": bson.M{
		"hasReceivedReward": true,
		"validReadingDate":  at,
		"updatedAt":         at,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// FindByUserAndBook returns the ledger row for a pair
func (r *UserBookRewardRepository) FindByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*models.UserBookReward, error) {
	var reward models.UserBookReward
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "bookId": bookID}).Decode(&reward)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &reward, nil
}
