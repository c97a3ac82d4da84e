package ranking

import "runpool/internal/models"

// DefaultStreakWindow is how many recent closed challenges a streak can span
const DefaultStreakWindow = 8

// ComputeStreaks counts, for each user, the consecutive closed challenges
// (starting at the most recent) in which the user has at least one proof.
// closed must be ordered most recent first. The walk stops at the first
// challenge without a proof, so a single missed week resets the streak.
func ComputeStreaks(closed []models.Challenge, proofs []models.Proof, userIDs []string) map[string]int {
	streaks := make(map[string]int, len(userIDs))
	for _, id := range userIDs {
		streaks[id] = 0
	}
	if len(closed) == 0 {
		return streaks
	}

	participated := make(map[string]map[string]struct{}, len(closed))
	for _, p := range proofs {
		users, ok := participated[p.ChallengeID]
		if !ok {
			users = make(map[string]struct{})
			participated[p.ChallengeID] = users
		}
		users[p.UserID] = struct{}{}
	}

	for _, id := range userIDs {
		count := 0
		for _, c := range closed {
			if _, ok := participated[c.ID][id]; !ok {
				break
			}
			count++
		}
		streaks[id] = count
	}
	return streaks
}

// ApplyStreaks copies streak counts onto rows
func ApplyStreaks(rows []models.LeaderboardRow, streaks map[string]int) {
	for i := range rows {
		rows[i].Streak = streaks[rows[i].UserID]
	}
}
