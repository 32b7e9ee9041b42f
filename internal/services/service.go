package services

import (
	"context"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
}

// UserService defines the interface for user account operations
type UserService interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetTransactions(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Transaction, error)
	GetAllUsers(ctx context.Context, page, limit int) ([]*models.User, error)
	GetUserCount(ctx context.Context) (int64, error)
	UpdatePlan(ctx context.Context, id primitive.ObjectID, planType string) error
}

// BookService defines the interface for book catalog operations
type BookService interface {
	GetBooks(ctx context.Context, status string, page, limit int) ([]*models.Book, error)
	GetBookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	GetBookReviews(ctx context.Context, id primitive.ObjectID, page, limit int) ([]*models.Review, error)
	CreateBook(ctx context.Context, book *models.Book) error
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id primitive.ObjectID) error
}

// ReadingService defines the interface for the reading session lifecycle:
// the idempotent start and the completion decision procedure.
type ReadingService interface {
	StartReading(ctx context.Context, userID, bookID primitive.ObjectID) (*models.ReadingSession, error)
	CompleteReading(ctx context.Context, userID, bookID primitive.ObjectID, req *models.CompleteReadingRequest) (*models.CompleteReadingResult, error)
}

// WithdrawalService defines the interface for PIX withdrawal operations
type WithdrawalService interface {
	RequestWithdrawal(ctx context.Context, userID primitive.ObjectID, req *models.WithdrawalRequest) (*models.Withdrawal, error)
	GetUserWithdrawals(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error)
	GetWithdrawalsByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
}
