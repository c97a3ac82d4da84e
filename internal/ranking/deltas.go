package ranking

import "runpool/internal/models"

// TopN is the podium size that drives the joined/dropped highlights
const TopN = 3

// RankChange describes how one user moved between two standings
type RankChange struct {
	UserID      string
	Delta       int
	Movement    models.Movement
	JoinedTop3  bool
	DroppedTop3 bool
}

// Snapshot maps user id to a previously computed rank
type Snapshot map[string]int

// SnapshotOf captures the ranks of rows
func SnapshotOf(rows []models.LeaderboardRow) Snapshot {
	snap := make(Snapshot, len(rows))
	for _, r := range rows {
		snap[r.UserID] = r.Rank
	}
	return snap
}

// ComputeRankDeltas compares current standings with a previous snapshot.
// Delta is previous rank minus current rank, so a positive delta means the
// user moved up. Users without a previous rank (or a nil snapshot) get a zero
// delta and MovementSame.
func ComputeRankDeltas(current []models.LeaderboardRow, previous Snapshot) map[string]RankChange {
	changes := make(map[string]RankChange, len(current))
	for _, row := range current {
		change := RankChange{UserID: row.UserID, Movement: models.MovementSame}

		prevRank, ok := previous[row.UserID]
		if ok && prevRank > 0 {
			change.Delta = prevRank - row.Rank
			change.Movement = MovementFor(change.Delta)
			change.JoinedTop3 = prevRank > TopN && row.Rank <= TopN
			change.DroppedTop3 = prevRank <= TopN && row.Rank > TopN
		}

		changes[row.UserID] = change
	}
	return changes
}

// MovementFor maps a rank delta to its direction
func MovementFor(delta int) models.Movement {
	switch {
	case delta > 0:
		return models.MovementUp
	case delta < 0:
		return models.MovementDown
	}
	return models.MovementSame
}

// ApplyRankChanges copies delta, movement and top-3 flags onto rows
func ApplyRankChanges(rows []models.LeaderboardRow, changes map[string]RankChange) {
	for i := range rows {
		change, ok := changes[rows[i].UserID]
		if !ok {
			rows[i].RankDelta = 0
			rows[i].Movement = models.MovementSame
			continue
		}
		rows[i].RankDelta = change.Delta
		rows[i].Movement = change.Movement
		rows[i].JoinedTop3 = change.JoinedTop3
		rows[i].DroppedTop3 = change.DroppedTop3
	}
}
