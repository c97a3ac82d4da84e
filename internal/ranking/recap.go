package ranking

import (
	"github.com/shopspring/decimal"

	"runpool/internal/models"
)

// Summarize computes participant count, total and average miles of ranked
// rows. Figures are rounded to one decimal; the average is 0 when nobody
// participated.
func Summarize(rows []models.LeaderboardRow) models.RecapSummary {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(milesOf(r.Miles))
	}

	summary := models.RecapSummary{
		Participants: len(rows),
		TotalMiles:   total.Round(1).InexactFloat64(),
	}
	if summary.Participants > 0 {
		avg := total.Div(decimal.NewFromInt(int64(summary.Participants)))
		summary.AvgMiles = avg.Round(1).InexactFloat64()
	}
	return summary
}

// Top returns the first n rows with miles rounded for display
func Top(rows []models.LeaderboardRow, n int) []models.LeaderboardRow {
	if n > len(rows) {
		n = len(rows)
	}
	top := make([]models.LeaderboardRow, n)
	copy(top, rows[:n])
	for i := range top {
		top[i].Miles = Round1(top[i].Miles)
	}
	return top
}

// BuildRecap assembles the recap of one closed challenge from its ranked rows
func BuildRecap(group models.Group, challenge models.Challenge, rows []models.LeaderboardRow) models.Recap {
	return models.Recap{
		Group: models.RecapGroup{ID: group.ID, Name: group.Name},
		Challenge: models.RecapChallenge{
			ID:        challenge.ID,
			WeekStart: challenge.WeekStart,
			WeekEnd:   challenge.WeekEnd,
		},
		Summary: Summarize(rows),
		Top3:    Top(rows, TopN),
		Pot:     challenge.Pot,
	}
}
