package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal statuses. PROCESSING is the transient claim an admin settlement
// holds while it talks to the PIX gateway or refunds the balance; it returns
// to PENDING when that work fails.
const (
	WithdrawalStatusPending    = "PENDING"
	WithdrawalStatusProcessing = "PROCESSING"
	WithdrawalStatusPaid       = "PAID"
	WithdrawalStatusRejected   = "REJECTED"
)

// PIX key types accepted on withdrawal requests
const (
	PixKeyCPF    = "CPF"
	PixKeyEmail  = "EMAIL"
	PixKeyPhone  = "PHONE"
	PixKeyRandom = "RANDOM"
)

// Withdrawal is a payout request. The requested amount is debited from the
// user's balance when the request is accepted and refunded on rejection.
type Withdrawal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Amount      int64              `bson:"amount" json:"amount"`
	PixKey      string             `bson:"pixKey" json:"pixKey"`
	PixKeyType  string             `bson:"pixKeyType" json:"pixKeyType"`
	Status      string             `bson:"status" json:"status"`
	GatewayRef  string             `bson:"gatewayRef,omitempty" json:"gatewayRef,omitempty"`
	ProcessedAt *time.Time         `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WithdrawalRequest is the body of POST /api/withdrawals.
type WithdrawalRequest struct {
	Amount     int64  `json:"amount" binding:"required"`
	PixKey     string `json:"pixKey" binding:"required"`
	PixKeyType string `json:"pixKeyType" binding:"required,oneof=CPF EMAIL PHONE RANDOM"`
}
