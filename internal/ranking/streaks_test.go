package ranking

import (
	"testing"
	"time"

	"runpool/internal/models"
)

func closedWeeks(ids ...string) []models.Challenge {
	weeks := make([]models.Challenge, len(ids))
	end := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		weeks[i] = models.Challenge{
			ID:        id,
			GroupID:   "g1",
			WeekStart: end.AddDate(0, 0, -7*i-6),
			WeekEnd:   end.AddDate(0, 0, -7*i),
			Status:    models.ChallengeClosed,
		}
	}
	return weeks
}

func TestComputeStreaks(t *testing.T) {
	closed := closedWeeks("w4", "w3", "w2", "w1")

	proofs := []models.Proof{
		// gap in w3 resets the streak
		proof("w4", "gappy", "Gappy", 3, 0),
		proof("w2", "gappy", "Gappy", 3, 0),

		proof("w4", "steady", "Steady", 2, 0),
		proof("w3", "steady", "Steady", 2, 0),
		proof("w2", "steady", "Steady", 2, 0),
		proof("w2", "steady", "Steady", 1, 5),
		proof("w1", "steady", "Steady", 2, 0),

		proof("w3", "lapsed", "Lapsed", 5, 0),
		proof("w2", "lapsed", "Lapsed", 5, 0),

		proof("w4", "twice", "Twice", 1, 0),
		proof("w3", "twice", "Twice", 1, 0),
	}

	got := ComputeStreaks(closed, proofs, []string{"gappy", "steady", "lapsed", "twice", "newbie"})

	want := map[string]int{
		"gappy":  1,
		"steady": 4,
		"lapsed": 0,
		"twice":  2,
		"newbie": 0,
	}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("streak[%s] = %d, want %d", id, got[id], w)
		}
	}
}

func TestComputeStreaksNoClosedChallenges(t *testing.T) {
	got := ComputeStreaks(nil, []models.Proof{proof("open", "u1", "U", 1, 0)}, []string{"u1", "u2"})
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	for id, s := range got {
		if s != 0 {
			t.Errorf("streak[%s] = %d, want 0", id, s)
		}
	}
}

func TestApplyStreaks(t *testing.T) {
	rows := []models.LeaderboardRow{{UserID: "a"}, {UserID: "b"}}
	ApplyStreaks(rows, map[string]int{"a": 3})
	if rows[0].Streak != 3 || rows[1].Streak != 0 {
		t.Errorf("streaks = %d, %d", rows[0].Streak, rows[1].Streak)
	}
}
