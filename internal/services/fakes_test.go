package services

import (
	"context"
	"time"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. They mirror the conditional-update contracts of
// the MongoDB implementations (CAS on open sessions, on the reward latch, on
// balances and on PENDING withdrawals) so the services can be exercised
// without a database.

type userBookKey struct {
	userID primitive.ObjectID
	bookID primitive.ObjectID
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindAll(ctx context.Context, page, limit int) ([]*models.User, error) {
	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) UpdatePlan(ctx context.Context, id primitive.ObjectID, planType string) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.PlanType = planType
	return nil
}

func (r *fakeUserRepo) IncrementBalanceAndPoints(ctx context.Context, id primitive.ObjectID, money int64, points int) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Balance += money
	user.Points += points
	return nil
}

func (r *fakeUserRepo) DebitBalance(ctx context.Context, id primitive.ObjectID, amount int64) (bool, error) {
	user, ok := r.users[id]
	if !ok {
		return false, nil
	}
	if user.Balance < amount {
		return false, nil
	}
	user.Balance -= amount
	return true, nil
}

func (r *fakeUserRepo) CreditBalance(ctx context.Context, id primitive.ObjectID, amount int64) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Balance += amount
	return nil
}

type fakeBookRepo struct {
	books map[primitive.ObjectID]*models.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[primitive.ObjectID]*models.Book)}
}

func (r *fakeBookRepo) Create(ctx context.Context, book *models.Book) error {
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *book
	return &copied, nil
}

func (r *fakeBookRepo) FindAll(ctx context.Context, status string, page, limit int) ([]*models.Book, error) {
	books := make([]*models.Book, 0, len(r.books))
	for _, book := range r.books {
		if status != "" && book.Status != status {
			continue
		}
		copied := *book
		copied.Content = ""
		books = append(books, &copied)
	}
	return books, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, book *models.Book) error {
	if _, ok := r.books[book.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.books[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) ApplyReview(ctx context.Context, id primitive.ObjectID, rating int) (*models.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	book.ReviewsCount++
	book.RatingSum += int64(rating)
	copied := *book
	return &copied, nil
}

func (r *fakeBookRepo) SetAverageRating(ctx context.Context, id primitive.ObjectID, average float64) error {
	book, ok := r.books[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	book.AverageRating = average
	return nil
}

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]*models.ReadingSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*models.ReadingSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.ReadingSession) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ReadingSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) FindOpenByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*models.ReadingSession, error) {
	for _, session := range r.sessions {
		if session.UserID == userID && session.BookID == bookID && session.EndTime == nil {
			copied := *session
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeSessionRepo) Close(ctx context.Context, session *models.ReadingSession) (bool, error) {
	stored, ok := r.sessions[session.ID]
	if !ok || stored.EndTime != nil {
		return false, nil
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return true, nil
}

type fakeRewardRepo struct {
	rewards map[userBookKey]*models.UserBookReward
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{rewards: make(map[userBookKey]*models.UserBookReward)}
}

func (r *fakeRewardRepo) RecordAttempt(ctx context.Context, userID, bookID primitive.ObjectID, fraud bool) error {
	key := userBookKey{userID, bookID}
	row, ok := r.rewards[key]
	if !ok {
		row = &models.UserBookReward{ID: primitive.NewObjectID(), UserID: userID, BookID: bookID}
		r.rewards[key] = row
	}
	row.ReadingAttempts++
	if fraud {
		row.FraudAttempts++
	}
	return nil
}

func (r *fakeRewardRepo) ClaimReward(ctx context.Context, userID, bookID primitive.ObjectID, at time.Time) (bool, error) {
	key := userBookKey{userID, bookID}
	row, ok := r.rewards[key]
	if !ok {
		row = &models.UserBookReward{ID: primitive.NewObjectID(), UserID: userID, BookID: bookID}
		r.rewards[key] = row
	}
	if row.HasReceivedReward {
		return false, nil
	}
	row.HasReceivedReward = true
	row.ValidReadingDate = &at
	return true, nil
}

func (r *fakeRewardRepo) FindByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*models.UserBookReward, error) {
	row, ok := r.rewards[userBookKey{userID, bookID}]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *row
	return &copied, nil
}

type fakeReviewRepo struct {
	reviews []*models.Review
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	copied := *review
	r.reviews = append(r.reviews, &copied)
	return nil
}

func (r *fakeReviewRepo) FindByBookID(ctx context.Context, bookID primitive.ObjectID, page, limit int) ([]*models.Review, error) {
	var out []*models.Review
	for _, review := range r.reviews {
		if review.BookID == bookID {
			copied := *review
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeTransactionRepo struct {
	transactions []*models.Transaction
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID.IsZero() {
		transaction.ID = primitive.NewObjectID()
	}
	copied := *transaction
	r.transactions = append(r.transactions, &copied)
	return nil
}

func (r *fakeTransactionRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, transaction := range r.transactions {
		if transaction.UserID == userID {
			copied := *transaction
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeWithdrawalRepo struct {
	withdrawals map[primitive.ObjectID]*models.Withdrawal
}

func newFakeWithdrawalRepo() *fakeWithdrawalRepo {
	return &fakeWithdrawalRepo{withdrawals: make(map[primitive.ObjectID]*models.Withdrawal)}
}

func (r *fakeWithdrawalRepo) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	if withdrawal.ID.IsZero() {
		withdrawal.ID = primitive.NewObjectID()
	}
	copied := *withdrawal
	r.withdrawals[withdrawal.ID] = &copied
	return nil
}

func (r *fakeWithdrawalRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawal, ok := r.withdrawals[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *withdrawal
	return &copied, nil
}

func (r *fakeWithdrawalRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error) {
	var out []*models.Withdrawal
	for _, withdrawal := range r.withdrawals {
		if withdrawal.UserID == userID {
			copied := *withdrawal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error) {
	var out []*models.Withdrawal
	for _, withdrawal := range r.withdrawals {
		if status == "" || withdrawal.Status == status {
			copied := *withdrawal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) MarkProcessing(ctx context.Context, id primitive.ObjectID) (bool, error) {
	withdrawal, ok := r.withdrawals[id]
	if !ok || withdrawal.Status != models.WithdrawalStatusPending {
		return false, nil
	}
	withdrawal.Status = models.WithdrawalStatusProcessing
	return true, nil
}

func (r *fakeWithdrawalRepo) MarkPending(ctx context.Context, id primitive.ObjectID) error {
	withdrawal, ok := r.withdrawals[id]
	if ok && withdrawal.Status == models.WithdrawalStatusProcessing {
		withdrawal.Status = models.WithdrawalStatusPending
	}
	return nil
}

func (r *fakeWithdrawalRepo) MarkPaid(ctx context.Context, id primitive.ObjectID, gatewayRef string, at time.Time) (bool, error) {
	withdrawal, ok := r.withdrawals[id]
	if !ok || withdrawal.Status != models.WithdrawalStatusProcessing {
		return false, nil
	}
	withdrawal.Status = models.WithdrawalStatusPaid
	withdrawal.GatewayRef = gatewayRef
	withdrawal.ProcessedAt = &at
	return true, nil
}

func (r *fakeWithdrawalRepo) MarkRejected(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	withdrawal, ok := r.withdrawals[id]
	if !ok || withdrawal.Status != models.WithdrawalStatusProcessing {
		return false, nil
	}
	withdrawal.Status = models.WithdrawalStatusRejected
	withdrawal.ProcessedAt = &at
	return true, nil
}

// passthroughTxRunner runs the function directly; the fakes have no real
// transaction semantics to coordinate.
type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
