// Package ranking derives leaderboards, rank movement, streaks and recap
// summaries from proof rows. Everything here is pure computation over data
// the caller has already fetched.
package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"runpool/internal/models"
)

// Policy decides how several proofs from one user in one challenge combine
type Policy string

const (
	// Additive treats every proof as a distinct run and sums them.
	Additive Policy = "additive"
	// LatestWins counts only the most recently submitted proof.
	LatestWins Policy = "latest_wins"
)

// ParsePolicy converts a configuration value into a Policy
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case Additive, LatestWins:
		return Policy(s), nil
	case "":
		return Additive, nil
	}
	return "", fmt.Errorf("unknown resubmission policy %q", s)
}

// Rank groups proofs by user, combines their miles according to policy and
// returns rows sorted by miles descending with rank = position + 1.
//
// Equal mileage is ordered by who reached the total first (the created_at of
// the latest counted proof), then by user id. Totals are kept exact; only
// display helpers round.
func Rank(proofs []models.Proof, policy Policy) []models.LeaderboardRow {
	if len(proofs) == 0 {
		return []models.LeaderboardRow{}
	}

	byUser := make(map[string]*tally, len(proofs))
	order := make([]*tally, 0, len(proofs))

	for _, p := range proofs {
		miles := milesOf(p.Miles)
		t, ok := byUser[p.UserID]
		if !ok {
			t = &tally{
				row:   models.LeaderboardRow{UserID: p.UserID, Name: p.UserName, ReachedAt: p.CreatedAt},
				total: miles,
			}
			byUser[p.UserID] = t
			order = append(order, t)
			continue
		}

		if t.row.Name == "" {
			t.row.Name = p.UserName
		}

		switch policy {
		case LatestWins:
			if !p.CreatedAt.Before(t.row.ReachedAt) {
				t.total = miles
				t.row.ReachedAt = p.CreatedAt
			}
		default:
			t.total = t.total.Add(miles)
			if p.CreatedAt.After(t.row.ReachedAt) {
				t.row.ReachedAt = p.CreatedAt
			}
		}
	}

	slices.SortStableFunc(order, compareTallies)

	rows := make([]models.LeaderboardRow, len(order))
	for i, t := range order {
		row := t.row
		row.Miles = t.total.InexactFloat64()
		row.Movement = models.MovementSame
		row.Rank = i + 1
		rows[i] = row
	}
	return rows
}

// tally accumulates one user's counted miles
type tally struct {
	row   models.LeaderboardRow
	total decimal.Decimal
}

func compareTallies(a, b *tally) int {
	if c := b.total.Cmp(a.total); c != 0 {
		return c
	}
	if c := a.row.ReachedAt.Compare(b.row.ReachedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.row.UserID, b.row.UserID)
}

// milesOf converts a submitted mileage to an exact decimal. Non-finite values
// never pass validation and count as zero.
func milesOf(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// UserIDs returns the user ids of rows in rank order
func UserIDs(rows []models.LeaderboardRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.UserID
	}
	return ids
}

// Round1 rounds a mileage figure to one decimal place for display
func Round1(v float64) float64 {
	return milesOf(v).Round(1).InexactFloat64()
}
