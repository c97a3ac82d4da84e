package service

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"runpool/internal/models"
	"runpool/internal/ranking"
	"runpool/internal/testutil"
)

var weekOne = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

// week returns the challenge for the n-th week after weekOne
func week(id, groupID string, n int, status models.ChallengeStatus) models.Challenge {
	start := weekOne.AddDate(0, 0, 7*n)
	return models.Challenge{
		ID:        id,
		GroupID:   groupID,
		WeekStart: start,
		WeekEnd:   start.AddDate(0, 0, 6),
		Status:    status,
		Pot:       decimal.NewFromInt(20),
		CreatedAt: start,
	}
}

func runProof(challengeID, userID string, miles float64, minutes int) models.Proof {
	return models.Proof{
		ID:          challengeID + "-" + userID + "-" + time.Duration(minutes).String(),
		ChallengeID: challengeID,
		UserID:      userID,
		Miles:       miles,
		CreatedAt:   weekOne.Add(time.Duration(minutes) * time.Minute),
	}
}

func seedRunners(store *testutil.MemStore) {
	for _, u := range []models.User{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
		{ID: "carol", Name: "Carol"},
		{ID: "dave", Name: "Dave"},
	} {
		store.SeedUser(u)
	}
	store.SeedGroup(models.Group{ID: "g1", Name: "Dawn Patrol"}, map[string]models.Role{
		"alice": models.RoleOwner,
		"bob":   models.RoleAdmin,
		"carol": models.RoleMember,
		"dave":  models.RoleMember,
	})
}

func newLeaderboardService(store *testutil.MemStore, policy ranking.Policy) *LeaderboardService {
	return NewLeaderboardService(store, store, store, store, policy, ranking.DefaultStreakWindow, zap.NewNop())
}
