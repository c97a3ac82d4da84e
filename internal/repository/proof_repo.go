package repository

import (
	"context"
	"fmt"
	"strings"

	"runpool/internal/database"
	"runpool/internal/models"
)

const proofSelect = `
		SELECT p.id, p.challenge_id, p.user_id, COALESCE(u.name, ''), p.miles, p.image_url, p.created_at
		FROM proofs p
		LEFT JOIN users u ON p.user_id = u.id
`

// ProofRepository handles database operations for run proofs
type ProofRepository struct {
	db *database.DB
}

// NewProofRepository creates a new proof repository
func NewProofRepository(db *database.DB) *ProofRepository {
	return &ProofRepository{db: db}
}

// CreateProof inserts a proof; the caller assigns the ID
func (r *ProofRepository) CreateProof(ctx context.Context, p *models.Proof) error {
	query := "INSERT INTO proofs (id, challenge_id, user_id, miles, image_url, created_at) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, p.ID, p.ChallengeID, p.UserID, p.Miles, p.ImageURL, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create proof: %w", err)
	}
	return nil
}

// ListProofs returns every proof of a challenge in submission order
func (r *ProofRepository) ListProofs(ctx context.Context, challengeID string) ([]models.Proof, error) {
	query := proofSelect + " WHERE p.challenge_id = ? ORDER BY p.created_at ASC, p.id ASC"
	return r.queryProofs(ctx, query, challengeID)
}

// ListProofsForChallenges returns the proofs of several challenges at once
func (r *ProofRepository) ListProofsForChallenges(ctx context.Context, challengeIDs []string) ([]models.Proof, error) {
	if len(challengeIDs) == 0 {
		return []models.Proof{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(challengeIDs)), ",")
	query := proofSelect + " WHERE p.challenge_id IN (" + placeholders + ") ORDER BY p.created_at ASC, p.id ASC"

	args := make([]any, len(challengeIDs))
	for i, id := range challengeIDs {
		args[i] = id
	}
	return r.queryProofs(ctx, query, args...)
}

func (r *ProofRepository) queryProofs(ctx context.Context, query string, args ...any) ([]models.Proof, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query proofs: %w", err)
	}
	defer rows.Close()

	proofs := []models.Proof{}
	for rows.Next() {
		var p models.Proof
		if err := rows.Scan(&p.ID, &p.ChallengeID, &p.UserID, &p.UserName, &p.Miles, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan proof: %w", err)
		}
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}
