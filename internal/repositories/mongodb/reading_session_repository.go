package mongodb

import (
	"context"
	"time"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure ReadingSessionRepository implements the interface
var _ repositories.ReadingSessionRepository = (*ReadingSessionRepository)(nil)

// ReadingSessionRepository handles MongoDB operations for ReadingSession
type ReadingSessionRepository struct {
	collection *mongo.Collection
}

// NewReadingSessionRepository creates a new ReadingSessionRepository
func NewReadingSessionRepository(db *mongo.Database) *ReadingSessionRepository {
	return &ReadingSessionRepository{
		collection: db.Collection("reading_sessions"),
	}
}

// Create inserts a new reading session
func (r *ReadingSessionRepository) Create(ctx context.Context, session *models.ReadingSession) error {
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

// FindByID finds a reading session by ID
func (r *ReadingSessionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ReadingSession, error) {
	var session models.ReadingSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &session, nil
}

// FindOpenByUserAndBook finds the open session for a (user, book) pair, if any
func (r *ReadingSessionRepository) FindOpenByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*models.ReadingSession, error) {
	filter := bson.M{
		"userId":  userID,
		"bookId":  bookID,
		"endTime": bson.M{"$exists": false},
	}
	var session models.ReadingSession
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &session, nil
}

// Close writes the closure fields, guarded on the session still being open.
// Returns false when another call already closed it.
func (r *ReadingSessionRepository) Close(ctx context.Context, session *models.ReadingSession) (bool, error) {
	filter := bson.M{
		"_id":     session.ID,
		"endTime": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"endTime":          session.EndTime,
		"totalTime":        session.TotalTime,
		"activeTime":       session.ActiveTime,
		"isValid":          session.IsValid,
		"fraudScore":       session.FraudScore,
		"decision":         session.Decision,
		"canReceiveReward": session.CanReceiveReward,
		"rewardProcessed":  session.RewardProcessed,
		"updatedAt":        time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}
