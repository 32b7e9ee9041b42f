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

// Compile-time check to ensure ReviewRepository implements the interface
var _ repositories.ReviewRepository = (*ReviewRepository)(nil)

// ReviewRepository handles MongoDB operations for Review
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{
		collection: db.Collection("reviews"),
	}
}

// Create inserts a new review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, review)
	return err
}

// FindByBookID retrieves reviews for a book with pagination
func (r *ReviewRepository) FindByBookID(ctx context.Context, bookID primitive.ObjectID, page, limit int) ([]*models.Review, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"bookId": bookID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []*models.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	return reviews, nil
}
