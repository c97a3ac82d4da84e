package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"runpool/internal/database"
	"runpool/internal/models"
)

const challengeColumns = "id, group_id, week_start, week_end, status, pot, created_at"

// ChallengeRepository handles database operations for weekly challenges
type ChallengeRepository struct {
	db *database.DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *database.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// CreateChallenge inserts a challenge; the caller assigns the ID
func (r *ChallengeRepository) CreateChallenge(ctx context.Context, c *models.Challenge) error {
	query := "INSERT INTO challenges (" + challengeColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, c.ID, c.GroupID, c.WeekStart, c.WeekEnd, c.Status, c.Pot, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// GetChallenge retrieves a challenge by ID, returning nil when it does not exist
func (r *ChallengeRepository) GetChallenge(ctx context.Context, challengeID string) (*models.Challenge, error) {
	query := "SELECT " + challengeColumns + " FROM challenges WHERE id = ?"
	c, err := scanChallenge(r.db.QueryRowContext(ctx, query, challengeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}

// GetOpenChallenge returns the group's most recent OPEN challenge, or nil
func (r *ChallengeRepository) GetOpenChallenge(ctx context.Context, groupID string) (*models.Challenge, error) {
	query := "SELECT " + challengeColumns + " FROM challenges WHERE group_id = ? AND status = ? ORDER BY week_end DESC LIMIT 1"
	c, err := scanChallenge(r.db.QueryRowContext(ctx, query, groupID, models.ChallengeOpen))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open challenge: %w", err)
	}
	return c, nil
}

// ListClosedChallenges returns up to limit CLOSED challenges ordered by
// week_end descending. An empty groupID lists across all groups.
func (r *ChallengeRepository) ListClosedChallenges(ctx context.Context, groupID string, limit int) ([]models.Challenge, error) {
	query := "SELECT " + challengeColumns + " FROM challenges WHERE status = ?"
	args := []any{models.ChallengeClosed}
	if groupID != "" {
		query += " AND group_id = ?"
		args = append(args, groupID)
	}
	query += " ORDER BY week_end DESC, created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed challenges: %w", err)
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

// CloseChallenge marks a challenge CLOSED. It reports whether a row changed.
func (r *ChallengeRepository) CloseChallenge(ctx context.Context, challengeID string) (bool, error) {
	query := "UPDATE challenges SET status = ? WHERE id = ? AND status = ?"
	res, err := r.db.ExecContext(ctx, query, models.ChallengeClosed, challengeID, models.ChallengeOpen)
	if err != nil {
		return false, fmt.Errorf("failed to close challenge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to close challenge: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row rowScanner) (*models.Challenge, error) {
	c := &models.Challenge{}
	if err := row.Scan(&c.ID, &c.GroupID, &c.WeekStart, &c.WeekEnd, &c.Status, &c.Pot, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}
