package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChallengeStatus is the lifecycle state of a weekly challenge
type ChallengeStatus string

const (
	ChallengeOpen   ChallengeStatus = "OPEN"
	ChallengeClosed ChallengeStatus = "CLOSED"
)

// Challenge is a time-boxed weekly competition scoped to one group.
// WeekStart and WeekEnd are inclusive dates. Pot is informational only; money
// is settled outside the system.
type Challenge struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	WeekStart time.Time       `json:"week_start"`
	WeekEnd   time.Time       `json:"week_end"`
	Status    ChallengeStatus `json:"status"`
	Pot       decimal.Decimal `json:"pot"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsOpen reports whether proofs may still be submitted
func (c *Challenge) IsOpen() bool {
	return c.Status == ChallengeOpen
}
