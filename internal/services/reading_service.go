package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Completion outcome messages, mutually exclusive.
const (
	msgRewardGranted   = "Avaliação criada e recompensa processada!"
	msgFraudDetected   = "Avaliação criada, mas tempo de leitura muito rápido"
	msgAlreadyRewarded = "Avaliação criada, mas recompensa já foi recebida"
)

// Compile-time check to ensure ReadingServiceImpl implements ReadingService
var _ ReadingService = (*ReadingServiceImpl)(nil)

// ReadingServiceImpl owns the reading session lifecycle: the idempotent
// start and the completion decision procedure that settles the fraud
// verdict and the at-most-once reward payment.
type ReadingServiceImpl struct {
	sessionRepo     repositories.ReadingSessionRepository
	rewardRepo      repositories.UserBookRewardRepository
	reviewRepo      repositories.ReviewRepository
	bookRepo        repositories.BookRepository
	userRepo        repositories.UserRepository
	transactionRepo repositories.TransactionRepository
	txRunner        repositories.TransactionRunner
	maxReadingSpeed int
	now             func() time.Time
}

// NewReadingService creates a new ReadingServiceImpl. maxReadingSpeed is the
// fastest plausible reading rate in words per minute.
func NewReadingService(
	sessionRepo repositories.ReadingSessionRepository,
	rewardRepo repositories.UserBookRewardRepository,
	reviewRepo repositories.ReviewRepository,
	bookRepo repositories.BookRepository,
	userRepo repositories.UserRepository,
	transactionRepo repositories.TransactionRepository,
	txRunner repositories.TransactionRunner,
	maxReadingSpeed int,
) *ReadingServiceImpl {
	return &ReadingServiceImpl{
		sessionRepo:     sessionRepo,
		rewardRepo:      rewardRepo,
		reviewRepo:      reviewRepo,
		bookRepo:        bookRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		txRunner:        txRunner,
		maxReadingSpeed: maxReadingSpeed,
		now:             time.Now,
	}
}

// StartReading returns the existing open session for the (user, book) pair
// or creates a new one. Starting is idempotent: retries land on the same
// session and keep its original startTime as the timing baseline.
func (s *ReadingServiceImpl) StartReading(ctx context.Context, userID, bookID primitive.ObjectID) (*models.ReadingSession, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	if book.Status != models.BookStatusPublished {
		return nil, ErrBookNotFound
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Level < book.RequiredLevel {
		return nil, ErrLevelRequired
	}

	existing, err := s.sessionRepo.FindOpenByUserAndBook(ctx, userID, bookID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up open session: %w", err)
	}

	session := &models.ReadingSession{
		UserID:    userID,
		BookID:    bookID,
		StartTime: s.now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create reading session: %w", err)
	}

	slog.Info("reading session started", "sessionId", session.ID.Hex(), "userId", userID.Hex(), "bookId", bookID.Hex())
	return session, nil
}

// CompleteReading closes a reading session, records the review, settles the
// fraud verdict and pays the reward at most once per (user, book) pair.
//
// The elapsed time measured from the stored startTime is authoritative; the
// client-reported readingTime is only a secondary signal and can shorten,
// never lengthen, the effective reading time.
//
// All writes run inside one storage transaction. Payment is gated on the
// conditional ledger update actually flipping hasReceivedReward, so two
// concurrent completions can never both pay.
//
// Note the deliberate asymmetry: a reward already claimed still yields a
// successful response carrying rewardProcessed=false (the review is wanted
// either way), while a session already closed is a hard error.
func (s *ReadingServiceImpl) CompleteReading(ctx context.Context, userID, bookID primitive.ObjectID, req *models.CompleteReadingRequest) (*models.CompleteReadingResult, error) {
	if req == nil || req.SessionID == "" || req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidInput
	}

	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID || session.BookID != bookID {
		return nil, ErrSessionNotFound
	}
	if session.EndTime != nil {
		return nil, ErrSessionClosed
	}

	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	now := s.now()
	elapsed := now.Sub(session.StartTime).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	effective := elapsed
	if req.ReadingTime != nil && *req.ReadingTime >= 0 && *req.ReadingTime < effective {
		effective = *req.ReadingTime
	}

	minReadingTime := minReadingTimeMs(book.WordCount, s.maxReadingSpeed)
	isFraud := effective < minReadingTime

	result := &models.CompleteReadingResult{}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context) error {
		// Close the session first; the guard on the open state makes a
		// concurrent duplicate completion fail here instead of double
		// writing.
		session.EndTime = &now
		session.TotalTime = elapsed
		session.ActiveTime = effective
		session.IsValid = !isFraud
		session.CanReceiveReward = !isFraud
		session.RewardProcessed = true
		if isFraud {
			session.FraudScore = 100
			session.Decision = models.DecisionRejected
		} else {
			session.FraudScore = 0
			session.Decision = models.DecisionApproved
		}
		closed, err := s.sessionRepo.Close(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		if !closed {
			return ErrSessionClosed
		}

		if err := s.rewardRepo.RecordAttempt(ctx, userID, bookID, isFraud); err != nil {
			return fmt.Errorf("failed to record reading attempt: %w", err)
		}

		// The review is persisted whatever the verdict: fast readers lose
		// the payment, not their engagement.
		review := &models.Review{
			UserID: userID,
			BookID: bookID,
			Rating: req.Rating,
		}
		if req.Comment != "" {
			review.Comment = req.Comment
		}
		if req.DonationAmount != nil && *req.DonationAmount > 0 {
			review.DonationAmount = *req.DonationAmount
		}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		result.ReviewID = review.ID.Hex()

		rewardGranted := false
		if !isFraud && canUserReceiveBookReward(user, book) {
			claimed, err := s.rewardRepo.ClaimReward(ctx, userID, bookID, now)
			if err != nil {
				return fmt.Errorf("failed to claim reward: %w", err)
			}
			if claimed {
				multiplier := int64(1)
				if user.PlanType == models.PlanPremium && book.PremiumMultiplier > 1 {
					multiplier = book.PremiumMultiplier
				}
				earnedMoney := book.BaseRewardMoney * multiplier
				earnedPoints := book.RewardPoints * int(multiplier)

				if err := s.userRepo.IncrementBalanceAndPoints(ctx, userID, earnedMoney, earnedPoints); err != nil {
					return fmt.Errorf("failed to credit earnings: %w", err)
				}

				transaction := &models.Transaction{
					UserID:      userID,
					Type:        models.TransactionTypeEarning,
					Amount:      earnedMoney,
					Status:      models.TransactionStatusCompleted,
					Description: fmt.Sprintf("Recompensa de leitura: %s", book.Title),
					SourceID:    session.ID.Hex(),
					SourceType:  models.SourceTypeReading,
				}
				if err := s.transactionRepo.Create(ctx, transaction); err != nil {
					return fmt.Errorf("failed to record earning transaction: %w", err)
				}

				result.EarnedMoney = earnedMoney
				result.EarnedPoints = earnedPoints
				rewardGranted = true
			}
		}
		result.RewardProcessed = rewardGranted

		updated, err := s.bookRepo.ApplyReview(ctx, bookID, req.Rating)
		if err != nil {
			return fmt.Errorf("failed to update book aggregates: %w", err)
		}
		average := roundRating(float64(updated.RatingSum) / float64(updated.ReviewsCount))
		if err := s.bookRepo.SetAverageRating(ctx, bookID, average); err != nil {
			return fmt.Errorf("failed to write average rating: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionClosed) {
			return nil, ErrSessionClosed
		}
		slog.Error("completion procedure failed", "error", err, "sessionId", sessionID.Hex(), "userId", userID.Hex())
		return nil, err
	}

	switch {
	case result.RewardProcessed:
		result.Message = msgRewardGranted
	case isFraud:
		result.Message = msgFraudDetected
	default:
		result.Message = msgAlreadyRewarded
	}

	slog.Info("reading session completed",
		"sessionId", sessionID.Hex(),
		"userId", userID.Hex(),
		"bookId", bookID.Hex(),
		"decision", session.Decision,
		"activeTimeMs", effective,
		"rewardProcessed", result.RewardProcessed,
	)
	return result, nil
}

// canUserReceiveBookReward is the monetization gate: PREMIUM users are paid
// for every book, FREE users only for the initial onboarding set.
func canUserReceiveBookReward(user *models.User, book *models.Book) bool {
	if user.PlanType == models.PlanPremium {
		return true
	}
	return book.IsInitialBook
}

// minReadingTimeMs derives the fastest plausible reading time in
// milliseconds from the book's word count and the configured maximum rate.
func minReadingTimeMs(wordCount, maxWordsPerMinute int) int64 {
	if wordCount <= 0 || maxWordsPerMinute <= 0 {
		return 0
	}
	return int64(wordCount) * 60_000 / int64(maxWordsPerMinute)
}

// roundRating rounds to one decimal place
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
