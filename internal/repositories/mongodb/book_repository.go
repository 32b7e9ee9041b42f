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

// Compile-time check to ensure BookRepository implements the interface
var _ repositories.BookRepository = (*BookRepository)(nil)

// BookRepository handles MongoDB operations for Book
type BookRepository struct {
	collection *mongo.Collection
}

// NewBookRepository creates a new BookRepository
func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		collection: db.Collection("books"),
	}
}

// Create inserts a new book
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	book.ID = primitive.NewObjectID()
	book.CreatedAt = time.Now()
	book.UpdatedAt = time.Now()
	if book.PremiumMultiplier < 1 {
		book.PremiumMultiplier = 1
	}
	_, err := r.collection.InsertOne(ctx, book)
	return err
}

// FindByID finds a book by ID
func (r *BookRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &book, nil
}

// FindAll retrieves books with pagination, optionally filtered by status.
// The full text is projected out; listings only carry metadata.
func (r *BookRepository) FindAll(ctx context.Context, status string, page, limit int) ([]*models.Book, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1}).
		SetProjection(bson.M{"content": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var books []*models.Book
	if err = cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []*models.Book{}
	}
	return books, nil
}

// Update updates an existing book
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": book.ID}, bson.M{"$set": book})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete deletes a book by ID
func (r *BookRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ApplyReview atomically folds one rating into the book's running
// aggregates and returns the post-increment document.
func (r *BookRepository) ApplyReview(ctx context.Context, id primitive.ObjectID, rating int) (*models.Book, error) {
	update := bson.M{
		"$inc": bson.M{"reviewsCount": 1, "ratingSum": int64(rating)},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var book models.Book
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&book)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SetAverageRating writes the derived average back to the book
func (r *BookRepository) SetAverageRating(ctx context.Context, id primitive.ObjectID, average float64) error {
	update := bson.M{"$set": bson.M{"averageRating": average, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
