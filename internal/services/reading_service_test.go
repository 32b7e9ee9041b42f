package services

import (
	"context"
	"testing"
	"time"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 3000 words at 250 wpm gives a 720000ms floor for a valid reading.
const (
	testWordCount      = 3000
	testMaxSpeed       = 250
	testMinReadingTime = 720000
)

type readingFixture struct {
	users    *fakeUserRepo
	books    *fakeBookRepo
	sessions *fakeSessionRepo
	rewards  *fakeRewardRepo
	reviews  *fakeReviewRepo
	txns     *fakeTransactionRepo
	svc      *ReadingServiceImpl
	clock    time.Time
}

func newReadingFixture() *readingFixture {
	f := &readingFixture{
		users:    newFakeUserRepo(),
		books:    newFakeBookRepo(),
		sessions: newFakeSessionRepo(),
		rewards:  newFakeRewardRepo(),
		reviews:  &fakeReviewRepo{},
		txns:     &fakeTransactionRepo{},
		clock:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewReadingService(f.sessions, f.rewards, f.reviews, f.books, f.users, f.txns, passthroughTxRunner{}, testMaxSpeed)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *readingFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *readingFixture) seedUser(planType string) *models.User {
	user := &models.User{Name: "Leitor", Email: "leitor@example.com", PlanType: planType, Level: 1}
	_ = f.users.Create(context.Background(), user)
	return user
}

func (f *readingFixture) seedBook(isInitial bool) *models.Book {
	book := &models.Book{
		Title:             "Dom Casmurro",
		WordCount:         testWordCount,
		BaseRewardMoney:   10000,
		RewardPoints:      100,
		PremiumMultiplier: 2,
		RequiredLevel:     1,
		IsInitialBook:     isInitial,
		Status:            models.BookStatusPublished,
	}
	_ = f.books.Create(context.Background(), book)
	return book
}

func (f *readingFixture) startSession(t *testing.T, user *models.User, book *models.Book) *models.ReadingSession {
	t.Helper()
	session, err := f.svc.StartReading(context.Background(), user.ID, book.ID)
	require.NoError(t, err)
	return session
}

func TestStartReadingIsIdempotent(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)

	first := f.startSession(t, user, book)
	f.advance(5 * time.Minute)
	second := f.startSession(t, user, book)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.StartTime, second.StartTime, "retry must keep the original timing baseline")
}

func TestStartReadingRejectsUnpublishedBook(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	book.Status = models.BookStatusDraft
	require.NoError(t, f.books.Update(context.Background(), book))

	_, err := f.svc.StartReading(context.Background(), user.ID, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestStartReadingEnforcesRequiredLevel(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	book.RequiredLevel = 5
	require.NoError(t, f.books.Update(context.Background(), book))

	_, err := f.svc.StartReading(context.Background(), user.ID, book.ID)
	assert.ErrorIs(t, err, ErrLevelRequired)
}

func TestCompleteReadingPaysRewardOnValidReading(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	session := f.startSession(t, user, book)

	f.advance(800 * time.Second)
	result, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
		SessionID: session.ID.Hex(),
		Rating:    5,
		Comment:   "Excelente!",
	})
	require.NoError(t, err)

	assert.True(t, result.RewardProcessed)
	assert.Equal(t, int64(10000), result.EarnedMoney)
	assert.Equal(t, 100, result.EarnedPoints)
	assert.Equal(t, "Avaliação criada e recompensa processada!", result.Message)
	assert.NotEmpty(t, result.ReviewID)

	credited, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), credited.Balance)
	assert.Equal(t, 100, credited.Points)

	closed, err := f.sessions.FindByID(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)
	assert.Equal(t, models.DecisionApproved, closed.Decision)
	assert.Equal(t, 0, closed.FraudScore)
	assert.True(t, closed.IsValid)
	assert.Equal(t, int64(800000), closed.TotalTime)

	require.Len(t, f.txns.transactions, 1)
	txn := f.txns.transactions[0]
	assert.Equal(t, models.TransactionTypeEarning, txn.Type)
	assert.Equal(t, int64(10000), txn.Amount)
	assert.Equal(t, session.ID.Hex(), txn.SourceID)
	assert.Equal(t, models.SourceTypeReading, txn.SourceType)

	reward, err := f.rewards.FindByUserAndBook(context.Background(), user.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, reward.HasReceivedReward)
	assert.Equal(t, 1, reward.ReadingAttempts)
	assert.Equal(t, 0, reward.FraudAttempts)
}

func TestCompleteReadingRejectsFastReading(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	session := f.startSession(t, user, book)

	f.advance(500 * time.Second)
	result, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
		SessionID: session.ID.Hex(),
		Rating:    4,
	})
	require.NoError(t, err)

	assert.False(t, result.RewardProcessed)
	assert.Zero(t, result.EarnedMoney)
	assert.Zero(t, result.EarnedPoints)
	assert.Equal(t, "Avaliação criada, mas tempo de leitura muito rápido", result.Message)
	assert.NotEmpty(t, result.ReviewID, "the review survives a fraud verdict")

	closed, err := f.sessions.FindByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionRejected, closed.Decision)
	assert.Equal(t, 100, closed.FraudScore)
	assert.False(t, closed.IsValid)

	untouched, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, untouched.Balance)
	assert.Empty(t, f.txns.transactions)

	reward, err := f.rewards.FindByUserAndBook(context.Background(), user.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, reward.HasReceivedReward)
	assert.Equal(t, 1, reward.FraudAttempts)
}

func TestCompleteReadingThresholdBoundary(t *testing.T) {
	tests := []struct {
		name      string
		elapsedMs int64
		wantFraud bool
	}{
		{"exactly at the floor is valid", testMinReadingTime, false},
		{"one millisecond short is fraud", testMinReadingTime - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReadingFixture()
			user := f.seedUser(models.PlanFree)
			book := f.seedBook(true)
			session := f.startSession(t, user, book)

			f.advance(time.Duration(tt.elapsedMs) * time.Millisecond)
			result, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
				SessionID: session.ID.Hex(),
				Rating:    3,
			})
			require.NoError(t, err)
			assert.Equal(t, !tt.wantFraud, result.RewardProcessed)
		})
	}
}

func TestCompleteReadingClientHintCannotInflate(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	session := f.startSession(t, user, book)

	// Only 500s actually elapsed; the client claims 900s.
	f.advance(500 * time.Second)
	hint := int64(900000)
	result, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
		SessionID:   session.ID.Hex(),
		ReadingTime: &hint,
		Rating:      5,
	})
	require.NoError(t, err)
	assert.False(t, result.RewardProcessed)
	assert.Equal(t, "Avaliação criada, mas tempo de leitura muito rápido", result.Message)
}

func TestCompleteReadingClientHintCanShorten(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	session := f.startSession(t, user, book)

	// 800s elapsed but the client admits to only 500s of actual reading.
	f.advance(800 * time.Second)
	hint := int64(500000)
	result, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
		SessionID:   session.ID.Hex(),
		ReadingTime: &hint,
		Rating:      5,
	})
	require.NoError(t, err)
	assert.False(t, result.RewardProcessed)

	closed, err := f.sessions.FindByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(800000), closed.TotalTime)
	assert.Equal(t, int64(500000), closed.ActiveTime)
}

func TestCompleteReadingFreeUserNonInitialBookNotPaid(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(false)
	session := f.startSession(t, user, book)

	f.advance(800 * time.Second)
	result, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
		SessionID: session.ID.Hex(),
		Rating:    5,
	})
	require.NoError(t, err)

	assert.False(t, result.RewardProcessed)
	assert.Zero(t, result.EarnedMoney)

	closed, err := f.sessions.FindByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionApproved, closed.Decision, "ineligible for payment is not fraud")

	reward, err := f.rewards.FindByUserAndBook(context.Background(), user.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, reward.HasReceivedReward, "the latch stays available for a future plan upgrade")
}

func TestCompleteReadingPremiumMultiplier(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanPremium)
	book := f.seedBook(false)
	session := f.startSession(t, user, book)

	f.advance(800 * time.Second)
	result, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
		SessionID: session.ID.Hex(),
		Rating:    5,
	})
	require.NoError(t, err)

	assert.True(t, result.RewardProcessed)
	assert.Equal(t, int64(20000), result.EarnedMoney)
	assert.Equal(t, 200, result.EarnedPoints)
}

func TestCompleteReadingRewardGrantedAtMostOnce(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanPremium)
	book := f.seedBook(false)

	first := f.startSession(t, user, book)
	f.advance(800 * time.Second)
	result, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
		SessionID: first.ID.Hex(),
		Rating:    5,
	})
	require.NoError(t, err)
	require.True(t, result.RewardProcessed)

	second := f.startSession(t, user, book)
	require.NotEqual(t, first.ID, second.ID)
	f.advance(800 * time.Second)
	result, err = f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
		SessionID: second.ID.Hex(),
		Rating:    4,
	})
	require.NoError(t, err)

	assert.False(t, result.RewardProcessed)
	assert.Zero(t, result.EarnedMoney)
	assert.Equal(t, "Avaliação criada, mas recompensa já foi recebida", result.Message)

	balance, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance.Balance, "only the first completion pays")
	assert.Len(t, f.txns.transactions, 1)
	assert.Len(t, f.reviews.reviews, 2, "both completions keep their reviews")
}

func TestCompleteReadingClosedSessionIsHardError(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	session := f.startSession(t, user, book)

	f.advance(800 * time.Second)
	req := &models.CompleteReadingRequest{SessionID: session.ID.Hex(), Rating: 5}
	_, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, req)
	require.NoError(t, err)

	_, err = f.svc.CompleteReading(context.Background(), user.ID, book.ID, req)
	assert.ErrorIs(t, err, ErrSessionClosed)

	assert.Len(t, f.reviews.reviews, 1, "the duplicate call must not write a second review")
	assert.Len(t, f.txns.transactions, 1)
}

func TestCompleteReadingValidation(t *testing.T) {
	f := newReadingFixture()
	user := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	session := f.startSession(t, user, book)

	tests := []struct {
		name    string
		req     *models.CompleteReadingRequest
		wantErr error
	}{
		{"nil request", nil, ErrInvalidInput},
		{"missing session id", &models.CompleteReadingRequest{Rating: 5}, ErrInvalidInput},
		{"rating too low", &models.CompleteReadingRequest{SessionID: session.ID.Hex(), Rating: 0}, ErrInvalidInput},
		{"rating too high", &models.CompleteReadingRequest{SessionID: session.ID.Hex(), Rating: 6}, ErrInvalidInput},
		{"malformed session id", &models.CompleteReadingRequest{SessionID: "not-a-hex-id", Rating: 5}, ErrSessionNotFound},
		{"unknown session id", &models.CompleteReadingRequest{SessionID: primitive.NewObjectID().Hex(), Rating: 5}, ErrSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompleteReadingRejectsForeignSession(t *testing.T) {
	f := newReadingFixture()
	owner := f.seedUser(models.PlanFree)
	book := f.seedBook(true)
	session := f.startSession(t, owner, book)

	intruder := &models.User{Name: "Outro", Email: "outro@example.com", PlanType: models.PlanFree, Level: 1}
	require.NoError(t, f.users.Create(context.Background(), intruder))

	f.advance(800 * time.Second)
	_, err := f.svc.CompleteReading(context.Background(), intruder.ID, book.ID, &models.CompleteReadingRequest{
		SessionID: session.ID.Hex(),
		Rating:    5,
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCompleteReadingUpdatesAverageRating(t *testing.T) {
	f := newReadingFixture()
	book := f.seedBook(true)

	ratings := []int{4, 5}
	for i, rating := range ratings {
		user := &models.User{Name: "Leitor", Email: "leitor@example.com", PlanType: models.PlanFree, Level: 1}
		require.NoError(t, f.users.Create(context.Background(), user))

		session := f.startSession(t, user, book)
		f.advance(800 * time.Second)
		_, err := f.svc.CompleteReading(context.Background(), user.ID, book.ID, &models.CompleteReadingRequest{
			SessionID: session.ID.Hex(),
			Rating:    rating,
		})
		require.NoError(t, err, "completion %d", i)
	}

	updated, err := f.books.FindByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.ReviewsCount)
	assert.Equal(t, 4.5, updated.AverageRating)
}

func TestMinReadingTimeMs(t *testing.T) {
	assert.Equal(t, int64(720000), minReadingTimeMs(3000, 250))
	assert.Equal(t, int64(240), minReadingTimeMs(1, 250))
	assert.Zero(t, minReadingTimeMs(0, 250))
	assert.Zero(t, minReadingTimeMs(3000, 0))
}
