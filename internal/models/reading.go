package models

// CompleteReadingRequest is the body of POST /api/books/:id/complete.
// ReadingTime is a client-reported hint in milliseconds; the server-measured
// elapsed time stays authoritative and the hint can only shorten it.
type CompleteReadingRequest struct {
	SessionID      string `json:"sessionId"`
	ReadingTime    *int64 `json:"readingTime,omitempty"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
	DonationAmount *int64 `json:"donationAmount,omitempty"`
}

// CompleteReadingResult is the success payload of a completion call.
// RewardProcessed reports whether money was actually paid on this call; the
// session field of the same name only records that the session went through
// the decision procedure.
type CompleteReadingResult struct {
	ReviewID        string `json:"reviewId"`
	EarnedMoney     int64  `json:"earnedMoney"`
	EarnedPoints    int    `json:"earnedPoints"`
	RewardProcessed bool   `json:"rewardProcessed"`
	Message         string `json:"message"`
}
