package repository

import (
	"context"
	"fmt"

	"runpool/internal/database"
	"runpool/internal/models"
)

// SnapshotRepository stores the last computed ranks of each challenge
type SnapshotRepository struct {
	db *database.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// LoadSnapshot returns the stored entries of a challenge keyed by user ID
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context, challengeID string) (map[string]models.SnapshotEntry, error) {
	query := `
		SELECT challenge_id, user_id, user_rank, rank_delta, joined_top3, dropped_top3, updated_at
		FROM leaderboard_snapshots
		WHERE challenge_id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]models.SnapshotEntry)
	for rows.Next() {
		var e models.SnapshotEntry
		if err := rows.Scan(&e.ChallengeID, &e.UserID, &e.Rank, &e.RankDelta, &e.JoinedTop3, &e.DroppedTop3, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot entry: %w", err)
		}
		entries[e.UserID] = e
	}
	return entries, rows.Err()
}

// ReplaceSnapshot swaps the stored entries of a challenge in one transaction
func (r *SnapshotRepository) ReplaceSnapshot(ctx context.Context, challengeID string, entries []models.SnapshotEntry) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM leaderboard_snapshots WHERE challenge_id = ?", challengeID); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}

		query := `
			INSERT INTO leaderboard_snapshots
				(challenge_id, user_id, user_rank, rank_delta, joined_top3, dropped_top3, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, query, challengeID, e.UserID, e.Rank, e.RankDelta, e.JoinedTop3, e.DroppedTop3, e.UpdatedAt); err != nil {
				return fmt.Errorf("failed to store snapshot entry: %w", err)
			}
		}
		return nil
	})
}
