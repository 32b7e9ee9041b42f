package repositories

import (
	"context"
	"time"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations.
// Balance and points are only touched through atomic increment operations so
// concurrent completions never lose updates to each other.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	UpdatePlan(ctx context.Context, id primitive.ObjectID, planType string) error
	IncrementBalanceAndPoints(ctx context.Context, id primitive.ObjectID, money int64, points int) error
	// DebitBalance subtracts amount only if the current balance covers it,
	// reporting whether the debit happened.
	DebitBalance(ctx context.Context, id primitive.ObjectID, amount int64) (bool, error)
	CreditBalance(ctx context.Context, id primitive.ObjectID, amount int64) error
}

// BookRepository defines the interface for book data operations
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	FindAll(ctx context.Context, status string, page, limit int) ([]*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ApplyReview atomically increments reviewsCount and ratingSum and
	// returns the post-increment document.
	ApplyReview(ctx context.Context, id primitive.ObjectID, rating int) (*models.Book, error)
	SetAverageRating(ctx context.Context, id primitive.ObjectID, average float64) error
}

// ReadingSessionRepository defines the interface for reading session operations
type ReadingSessionRepository interface {
	Create(ctx context.Context, session *models.ReadingSession) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ReadingSession, error)
	FindOpenByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*models.ReadingSession, error)
	// Close writes the closure fields guarded on the session still being
	// open, reporting whether this call closed it.
	Close(ctx context.Context, session *models.ReadingSession) (bool, error)
}

// UserBookRewardRepository defines the interface for the per-(user, book)
// reward ledger.
type UserBookRewardRepository interface {
	// RecordAttempt upserts the ledger row and increments the attempt
	// counters (fraudAttempts only when fraud is true).
	RecordAttempt(ctx context.Context, userID, bookID primitive.ObjectID, fraud bool) error
	// ClaimReward flips hasReceivedReward false->true in a single
	// conditional update. The returned boolean is the only signal that this
	// call won the latch and may pay out.
	ClaimReward(ctx context.Context, userID, bookID primitive.ObjectID, at time.Time) (bool, error)
	FindByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*models.UserBookReward, error)
}

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByBookID(ctx context.Context, bookID primitive.ObjectID, page, limit int) ([]*models.Review, error)
}

// TransactionRepository defines the interface for ledger transaction operations
type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Transaction, error)
}

// WithdrawalRepository defines the interface for withdrawal data operations.
// Settlement is a two-step claim: MarkProcessing takes the PENDING request,
// and only its winner may pay or refund and then finalize with MarkPaid or
// MarkRejected, so two admins cannot settle the same request twice and the
// gateway is never asked to pay a request someone else already claimed.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error)
	FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error)
	// MarkProcessing claims a PENDING withdrawal for settlement, reporting
	// whether this call took the claim.
	MarkProcessing(ctx context.Context, id primitive.ObjectID) (bool, error)
	// MarkPending returns a claimed withdrawal to PENDING after the
	// settlement work failed before any money moved.
	MarkPending(ctx context.Context, id primitive.ObjectID) error
	MarkPaid(ctx context.Context, id primitive.ObjectID, gatewayRef string, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// TransactionRunner runs a function inside a single storage transaction.
// Every write issued through the given context commits or aborts together.
type TransactionRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
