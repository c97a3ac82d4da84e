package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"runpool/internal/metrics"
	"runpool/internal/models"
	"runpool/internal/validation"
)

// Notifier is told which challenge changed after a proof is stored
type Notifier interface {
	Publish(challengeID string)
}

// ProofService accepts run proofs for open challenges
type ProofService struct {
	proofs     ProofRepository
	challenges *ChallengeService
	groups     *GroupService
	users      UserRepository
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewProofService creates a new proof service. notifier may be nil when the
// store itself broadcasts changes.
func NewProofService(proofs ProofRepository, challenges *ChallengeService, groups *GroupService, users UserRepository, notifier Notifier, logger *zap.Logger) *ProofService {
	return &ProofService{
		proofs:     proofs,
		challenges: challenges,
		groups:     groups,
		users:      users,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitProof records miles for a member in an OPEN challenge of their group
func (s *ProofService) SubmitProof(ctx context.Context, submitter models.User, challengeID string, miles float64, imageURL string) (*models.Proof, error) {
	imageURL = strings.TrimSpace(imageURL)
	if err := validation.ValidateMiles(miles); err != nil {
		return nil, err
	}
	if err := validation.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}

	challenge, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.IsOpen() {
		return nil, ErrChallengeClosed
	}
	if _, err := s.groups.GetMembership(ctx, challenge.GroupID, submitter.ID); err != nil {
		return nil, err
	}

	if err := s.users.EnsureUser(ctx, submitter); err != nil {
		return nil, fmt.Errorf("failed to record user: %w", err)
	}

	proof := &models.Proof{
		ID:          uuid.NewString(),
		ChallengeID: challenge.ID,
		UserID:      submitter.ID,
		UserName:    submitter.Name,
		Miles:       miles,
		ImageURL:    imageURL,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.proofs.CreateProof(ctx, proof); err != nil {
		return nil, fmt.Errorf("failed to store proof: %w", err)
	}
	metrics.ProofsSubmitted.Inc()

	if s.notifier != nil {
		s.notifier.Publish(challenge.ID)
	}

	s.logger.Info("proof submitted",
		zap.String("proof_id", proof.ID),
		zap.String("challenge_id", challenge.ID),
		zap.String("user_id", submitter.ID),
		zap.Float64("miles", miles))
	return proof, nil
}
