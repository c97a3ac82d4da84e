package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecapGroup identifies the group a recap belongs to
type RecapGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RecapChallenge identifies the period a recap covers
type RecapChallenge struct {
	ID        string    `json:"id"`
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
}

// RecapSummary holds the aggregate figures of one closed challenge
type RecapSummary struct {
	Participants int     `json:"participants"`
	TotalMiles   float64 `json:"totalMiles"`
	AvgMiles     float64 `json:"avgMiles"`
}

// Recap summarizes one closed challenge for digests and the homepage preview
type Recap struct {
	Group     RecapGroup       `json:"group"`
	Challenge RecapChallenge   `json:"challenge"`
	Summary   RecapSummary     `json:"summary"`
	Top3      []LeaderboardRow `json:"top3"`
	Pot       decimal.Decimal  `json:"pot"`
}
