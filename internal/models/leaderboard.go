package models

import "time"

// Movement is the direction a user moved since the previous standings
type Movement string

const (
	MovementUp   Movement = "up"
	MovementDown Movement = "down"
	MovementSame Movement = "same"
)

// LeaderboardRow is one derived ranking entry for a challenge. It is never
// persisted; RankDelta, Movement, the top-3 flags and Streak are filled in by
// enrichment after ranking.
type LeaderboardRow struct {
	UserID      string   `json:"user_id"`
	Name        string   `json:"name"`
	Miles       float64  `json:"miles"`
	Rank        int      `json:"rank"`
	RankDelta   int      `json:"rank_delta"`
	Movement    Movement `json:"movement"`
	JoinedTop3  bool     `json:"joined_top3"`
	DroppedTop3 bool     `json:"dropped_top3"`
	Streak      int      `json:"streak"`

	// ReachedAt is when the user's counted total was last extended; used to
	// break ties between equal mileage.
	ReachedAt time.Time `json:"-"`
}

// SnapshotEntry is the server-held record of a user's last computed rank for
// a challenge, together with the change that produced it.
type SnapshotEntry struct {
	ChallengeID string    `json:"challenge_id"`
	UserID      string    `json:"user_id"`
	Rank        int       `json:"rank"`
	RankDelta   int       `json:"rank_delta"`
	JoinedTop3  bool      `json:"joined_top3"`
	DroppedTop3 bool      `json:"dropped_top3"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LeaderboardView is the enriched standings of one challenge as served to
// clients and stream subscribers.
type LeaderboardView struct {
	Challenge Challenge        `json:"challenge"`
	GroupName string           `json:"group_name"`
	Rows      []LeaderboardRow `json:"leaderboard"`
}
