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

// Compile-time check to ensure WithdrawalRepository implements the interface
var _ repositories.WithdrawalRepository = (*WithdrawalRepository)(nil)

// WithdrawalRepository handles MongoDB operations for Withdrawal
type WithdrawalRepository struct {
	collection *mongo.Collection
}

// NewWithdrawalRepository creates a new WithdrawalRepository
func NewWithdrawalRepository(db *mongo.Database) *WithdrawalRepository {
	return &WithdrawalRepository{
		collection: db.Collection("withdrawals"),
	}
}

// Create inserts a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	withdrawal.ID = primitive.NewObjectID()
	withdrawal.CreatedAt = time.Now()
	withdrawal.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, withdrawal)
	return err
}

// FindByID finds a withdrawal by ID
func (r *WithdrawalRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&withdrawal)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &withdrawal, nil
}

// FindByUserID retrieves a user's withdrawals with pagination
func (r *WithdrawalRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error) {
	return r.find(ctx, bson.M{"userId": userID}, page, limit)
}

// FindByStatus retrieves withdrawals by status with pagination
func (r *WithdrawalRepository) FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter, page, limit)
}

func (r *WithdrawalRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.Withdrawal, error) {
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

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []*models.Withdrawal
	if err = cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []*models.Withdrawal{}
	}
	return withdrawals, nil
}

// MarkProcessing claims a pending withdrawal for settlement. The filter on
// PENDING makes the claim exclusive; a false return means someone else holds
// it or already settled the request.
func (r *WithdrawalRepository) MarkProcessing(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "status": models.WithdrawalStatusPending}
	update := bson.M{"$set": bson.M{
		"status":    models.WithdrawalStatusProcessing,
		"updatedAt": time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// MarkPending releases a claimed withdrawal back to PENDING
func (r *WithdrawalRepository) MarkPending(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "status": models.WithdrawalStatusProcessing}
	update := bson.M{"$set": bson.M{
		"status":    models.WithdrawalStatusPending,
		"updatedAt": time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// MarkPaid finalizes a claimed withdrawal as paid
func (r *WithdrawalRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, gatewayRef string, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": models.WithdrawalStatusProcessing}
	update := bson.M{"$set": bson.M{
		"status":      models.WithdrawalStatusPaid,
		"gatewayRef":  gatewayRef,
		"processedAt": at,
		"updatedAt":   at,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// MarkRejected finalizes a claimed withdrawal as rejected
func (r *WithdrawalRepository) MarkRejected(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": models.WithdrawalStatusProcessing}
	update := bson.M{"$set": bson.M{
		"status":      models.WithdrawalStatusRejected,
		"processedAt": at,
		"updatedAt":   at,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}
