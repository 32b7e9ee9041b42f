package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceImpl handles user account business logic
type UserServiceImpl struct {
	userRepo        repositories.UserRepository
	transactionRepo repositories.TransactionRepository
}

// NewUserService creates a new UserServiceImpl
func NewUserService(userRepo repositories.UserRepository, transactionRepo repositories.TransactionRepository) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserServiceImpl) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.Password = ""
	return user, nil
}

// GetTransactions retrieves a user's ledger entries, newest first
func (s *UserServiceImpl) GetTransactions(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Transaction, error) {
	return s.transactionRepo.FindByUserID(ctx, userID, page, limit)
}

// GetAllUsers retrieves users with pagination
func (s *UserServiceImpl) GetAllUsers(ctx context.Context, page, limit int) ([]*models.User, error) {
	users, err := s.userRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		user.Password = ""
	}
	return users, nil
}

// GetUserCount gets the total number of users
func (s *UserServiceImpl) GetUserCount(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

// UpdatePlan sets a user's plan tier
func (s *UserServiceImpl) UpdatePlan(ctx context.Context, id primitive.ObjectID, planType string) error {
	if planType != models.PlanFree && planType != models.PlanPremium {
		return ErrInvalidInput
	}
	err := s.userRepo.UpdatePlan(ctx, id, planType)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrUserNotFound
	}
	return err
}
