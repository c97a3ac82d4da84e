package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"runpool/internal/models"
	"runpool/internal/validation"
)

var (
	ErrChallengeAlreadyOpen = errors.New("group already has an open challenge")
	ErrChallengeClosed      = errors.New("challenge is closed")
	ErrNoOpenChallenge      = errors.New("group has no open challenge")
	ErrInvalidPot           = errors.New("pot cannot be negative")
)

// ChallengeService handles the weekly challenge lifecycle
type ChallengeService struct {
	challenges ChallengeRepository
	groups     *GroupService
	logger     *zap.Logger
	now        func() time.Time
}

// NewChallengeService creates a new challenge service
func NewChallengeService(challenges ChallengeRepository, groups *GroupService, logger *zap.Logger) *ChallengeService {
	return &ChallengeService{
		challenges: challenges,
		groups:     groups,
		logger:     logger,
		now:        time.Now,
	}
}

// OpenChallenge starts a weekly challenge for a group. A group has at most
// one OPEN challenge at a time.
func (s *ChallengeService) OpenChallenge(ctx context.Context, actorID, groupID string, weekStart, weekEnd time.Time, pot decimal.Decimal) (*models.Challenge, error) {
	if err := validation.ValidateWeek(weekStart, weekEnd); err != nil {
		return nil, err
	}
	if pot.IsNegative() {
		return nil, ErrInvalidPot
	}

	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.groups.RequireAdmin(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	open, err := s.challenges.GetOpenChallenge(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open challenge: %w", err)
	}
	if open != nil {
		return nil, ErrChallengeAlreadyOpen
	}

	challenge := &models.Challenge{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		WeekStart: truncateDay(weekStart),
		WeekEnd:   truncateDay(weekEnd),
		Status:    models.ChallengeOpen,
		Pot:       pot.Round(2),
		CreatedAt: s.now().UTC(),
	}
	if err := s.challenges.CreateChallenge(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.logger.Info("challenge opened",
		zap.String("challenge_id", challenge.ID),
		zap.String("group_id", groupID))
	return challenge, nil
}

// CloseChallenge marks a challenge CLOSED so it counts toward recaps and
// streaks
func (s *ChallengeService) CloseChallenge(ctx context.Context, actorID, challengeID string) (*models.Challenge, error) {
	challenge, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := s.groups.RequireAdmin(ctx, challenge.GroupID, actorID); err != nil {
		return nil, err
	}

	changed, err := s.challenges.CloseChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to close challenge: %w", err)
	}
	if !changed {
		return nil, ErrChallengeClosed
	}

	challenge.Status = models.ChallengeClosed
	s.logger.Info("challenge closed",
		zap.String("challenge_id", challengeID),
		zap.String("group_id", challenge.GroupID))
	return challenge, nil
}

// GetChallenge retrieves a challenge by ID
func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID string) (*models.Challenge, error) {
	challenge, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

// CurrentChallenge returns the group's open challenge for a member
func (s *ChallengeService) CurrentChallenge(ctx context.Context, userID, groupID string) (*models.Challenge, error) {
	if _, err := s.groups.GetMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	challenge, err := s.challenges.GetOpenChallenge(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrNoOpenChallenge
	}
	return challenge, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
