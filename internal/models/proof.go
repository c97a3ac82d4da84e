package models

import "time"

// Proof is a user's claim of miles run during one challenge. Proofs are never
// mutated; a re-submission adds a new row.
type Proof struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"` // Populated via JOIN
	Miles       float64   `json:"miles"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
