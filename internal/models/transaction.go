package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction types
const (
	TransactionTypeEarning    = "EARNING"
	TransactionTypeWithdrawal = "WITHDRAWAL"
)

// Transaction statuses
const (
	TransactionStatusCompleted = "COMPLETED"
)

// Transaction source types
const (
	SourceTypeReading    = "reading"
	SourceTypeWithdrawal = "withdrawal"
)

// Transaction is an append-only ledger entry. Amount is in centavos.
type Transaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Type        string             `bson:"type" json:"type"`
	Amount      int64              `bson:"amount" json:"amount"`
	Status      string             `bson:"status" json:"status"`
	Description string             `bson:"description" json:"description"`
	SourceID    string             `bson:"sourceId" json:"sourceId"`
	SourceType  string             `bson:"sourceType" json:"sourceType"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
