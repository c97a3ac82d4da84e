package models

import "time"

// User is a RunPool account. Identity is owned by the hosted auth provider;
// this row only carries what the leaderboard and emails display.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
