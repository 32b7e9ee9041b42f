package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session decision outcomes
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// ReadingSession is the time-boxed record of one user reading one book.
// A session is open while EndTime is nil; it is closed exactly once, and the
// closure fields (times, verdict, decision) are immutable afterwards.
// TotalTime and ActiveTime are in milliseconds: TotalTime is the wall time
// measured from StartTime by the server, ActiveTime the effective reading
// time used for the verdict (never longer than TotalTime).
type ReadingSession struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	BookID           primitive.ObjectID `bson:"bookId" json:"bookId"`
	StartTime        time.Time          `bson:"startTime" json:"startTime"`
	EndTime          *time.Time         `bson:"endTime,omitempty" json:"endTime,omitempty"`
	TotalTime        int64              `bson:"totalTime" json:"totalTime"`
	ActiveTime       int64              `bson:"activeTime" json:"activeTime"`
	IsValid          bool               `bson:"isValid" json:"isValid"`
	FraudScore       int                `bson:"fraudScore" json:"fraudScore"`
	Decision         string             `bson:"decision,omitempty" json:"decision,omitempty"`
	CanReceiveReward bool               `bson:"canReceiveReward" json:"canReceiveReward"`
	RewardProcessed  bool               `bson:"rewardProcessed" json:"rewardProcessed"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
