package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/repositories"
	"github.com/leiturapay/leiturapay-backend/pkg/pixgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WithdrawalServiceImpl implements WithdrawalService
var _ WithdrawalService = (*WithdrawalServiceImpl)(nil)

// WithdrawalServiceImpl handles PIX withdrawal business logic. The requested
// amount is held (debited) when the request is accepted, paid out on
// approval and refunded on rejection.
type WithdrawalServiceImpl struct {
	withdrawalRepo  repositories.WithdrawalRepository
	userRepo        repositories.UserRepository
	transactionRepo repositories.TransactionRepository
	gateway         pixgateway.Gateway
	minAmount       int64
	now             func() time.Time
}

// NewWithdrawalService creates a new WithdrawalServiceImpl. minAmount is the
// smallest accepted withdrawal in centavos.
func NewWithdrawalService(
	withdrawalRepo repositories.WithdrawalRepository,
	userRepo repositories.UserRepository,
	transactionRepo repositories.TransactionRepository,
	gateway pixgateway.Gateway,
	minAmount int64,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		withdrawalRepo:  withdrawalRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		gateway:         gateway,
		minAmount:       minAmount,
		now:             time.Now,
	}
}

// RequestWithdrawal validates and registers a payout request, holding the
// amount from the user's balance. The balance check and debit are one
// atomic operation, so concurrent requests cannot overdraw.
func (s *WithdrawalServiceImpl) RequestWithdrawal(ctx context.Context, userID primitive.ObjectID, req *models.WithdrawalRequest) (*models.Withdrawal, error) {
	if req == nil || req.PixKey == "" {
		return nil, ErrInvalidInput
	}
	if req.Amount < s.minAmount {
		return nil, ErrWithdrawalTooSmall
	}

	debited, err := s.userRepo.DebitBalance(ctx, userID, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}
	if !debited {
		return nil, ErrInsufficientBalance
	}

	withdrawal := &models.Withdrawal{
		UserID:     userID,
		Amount:     req.Amount,
		PixKey:     req.PixKey,
		PixKeyType: req.PixKeyType,
		Status:     models.WithdrawalStatusPending,
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		// Put the held amount back; the request was never registered.
		if refundErr := s.userRepo.CreditBalance(ctx, userID, req.Amount); refundErr != nil {
			slog.Error("failed to refund after withdrawal create error", "error", refundErr, "userId", userID.Hex(), "amount", req.Amount)
		}
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	slog.Info("withdrawal requested", "withdrawalId", withdrawal.ID.Hex(), "userId", userID.Hex(), "amount", req.Amount)
	return withdrawal, nil
}

// GetUserWithdrawals retrieves a user's withdrawals with pagination
func (s *WithdrawalServiceImpl) GetUserWithdrawals(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.FindByUserID(ctx, userID, page, limit)
}

// GetWithdrawalsByStatus retrieves withdrawals by status with pagination
func (s *WithdrawalServiceImpl) GetWithdrawalsByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.FindByStatus(ctx, status, page, limit)
}

// ApproveWithdrawal pays a pending withdrawal through the PIX gateway and
// records the ledger entry. The PENDING->PROCESSING claim is taken before
// the gateway call, so two concurrent approvals can never both reach the
// PSP: the loser fails the claim without sending any money.
func (s *WithdrawalServiceImpl) ApproveWithdrawal(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawal, err := s.findPending(ctx, id)
	if err != nil {
		return nil, err
	}

	claimed, err := s.withdrawalRepo.MarkProcessing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to claim withdrawal: %w", err)
	}
	if !claimed {
		return nil, ErrWithdrawalSettled
	}

	reference, err := s.gateway.SendPayout(ctx, withdrawal.PixKey, withdrawal.PixKeyType, withdrawal.Amount)
	if err != nil {
		// Nothing was sent; release the claim so the payout can be retried.
		if releaseErr := s.withdrawalRepo.MarkPending(ctx, id); releaseErr != nil {
			slog.Error("failed to release withdrawal claim", "error", releaseErr, "withdrawalId", id.Hex())
		}
		return nil, fmt.Errorf("PIX payout failed: %w", err)
	}

	now := s.now()
	settled, err := s.withdrawalRepo.MarkPaid(ctx, id, reference, now)
	if err != nil {
		// The money left through the gateway; keep the reference visible for
		// manual reconciliation.
		slog.Error("payout sent but status write failed", "error", err, "withdrawalId", id.Hex(), "gatewayRef", reference)
		return nil, fmt.Errorf("failed to mark withdrawal paid: %w", err)
	}
	if !settled {
		return nil, ErrWithdrawalSettled
	}

	transaction := &models.Transaction{
		UserID:      withdrawal.UserID,
		Type:        models.TransactionTypeWithdrawal,
		Amount:      withdrawal.Amount,
		Status:      models.TransactionStatusCompleted,
		Description: "Saque via PIX",
		SourceID:    withdrawal.ID.Hex(),
		SourceType:  models.SourceTypeWithdrawal,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		slog.Error("failed to record withdrawal transaction", "error", err, "withdrawalId", id.Hex())
	}

	withdrawal.Status = models.WithdrawalStatusPaid
	withdrawal.GatewayRef = reference
	withdrawal.ProcessedAt = &now

	slog.Info("withdrawal paid", "withdrawalId", id.Hex(), "gatewayRef", reference, "amount", withdrawal.Amount)
	return withdrawal, nil
}

// RejectWithdrawal rejects a pending withdrawal and refunds the held amount.
// The refund is written while the claim is held and before the terminal
// REJECTED status; a failed refund releases the claim so the rejection can
// be retried with the user's money still safe.
func (s *WithdrawalServiceImpl) RejectWithdrawal(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawal, err := s.findPending(ctx, id)
	if err != nil {
		return nil, err
	}

	claimed, err := s.withdrawalRepo.MarkProcessing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to claim withdrawal: %w", err)
	}
	if !claimed {
		return nil, ErrWithdrawalSettled
	}

	if err := s.userRepo.CreditBalance(ctx, withdrawal.UserID, withdrawal.Amount); err != nil {
		if releaseErr := s.withdrawalRepo.MarkPending(ctx, id); releaseErr != nil {
			slog.Error("failed to release withdrawal claim", "error", releaseErr, "withdrawalId", id.Hex())
		}
		return nil, fmt.Errorf("failed to refund withdrawal: %w", err)
	}

	now := s.now()
	settled, err := s.withdrawalRepo.MarkRejected(ctx, id, now)
	if err != nil {
		// The refund is already credited; flag for manual reconciliation
		// instead of crediting again on a retry.
		slog.Error("refund credited but status write failed", "error", err, "withdrawalId", id.Hex(), "amount", withdrawal.Amount)
		return nil, fmt.Errorf("failed to mark withdrawal rejected: %w", err)
	}
	if !settled {
		return nil, ErrWithdrawalSettled
	}

	withdrawal.Status = models.WithdrawalStatusRejected
	withdrawal.ProcessedAt = &now

	slog.Info("withdrawal rejected", "withdrawalId", id.Hex(), "amount", withdrawal.Amount)
	return withdrawal, nil
}

func (s *WithdrawalServiceImpl) findPending(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to load withdrawal: %w", err)
	}
	if withdrawal.Status != models.WithdrawalStatusPending {
		return nil, ErrWithdrawalSettled
	}
	return withdrawal, nil
}
