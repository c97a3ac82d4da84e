package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"runpool/internal/models"
	"runpool/internal/ranking"
)

// DefaultRecapLimit is used when the caller does not pass a positive limit
const DefaultRecapLimit = 10

const recapFetchConcurrency = 4

// RecapService compiles weekly summaries of closed challenges
type RecapService struct {
	challenges   ChallengeRepository
	groups       GroupRepository
	leaderboards *LeaderboardService
	defaultLimit int
	logger       *zap.Logger
}

// NewRecapService creates a new recap service
func NewRecapService(challenges ChallengeRepository, groups GroupRepository, leaderboards *LeaderboardService, defaultLimit int, logger *zap.Logger) *RecapService {
	if defaultLimit < 1 {
		defaultLimit = DefaultRecapLimit
	}
	return &RecapService{
		challenges:   challenges,
		groups:       groups,
		leaderboards: leaderboards,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// ComputeRecap summarizes the most recently closed challenges, newest first.
// With a groupID only that group's latest closed challenge is included.
// An empty result is not an error.
func (s *RecapService) ComputeRecap(ctx context.Context, limit int, groupID string) ([]models.Recap, error) {
	if limit < 1 {
		limit = s.defaultLimit
	}
	if groupID != "" {
		limit = 1
	}

	closed, err := s.challenges.ListClosedChallenges(ctx, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed challenges: %w", err)
	}

	recaps := make([]models.Recap, len(closed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recapFetchConcurrency)
	for i, challenge := range closed {
		g.Go(func() error {
			group, err := s.groups.GetGroup(gctx, challenge.GroupID)
			if err != nil {
				return fmt.Errorf("failed to get group %s: %w", challenge.GroupID, err)
			}
			if group == nil {
				group = &models.Group{ID: challenge.GroupID}
			}

			rows, err := s.leaderboards.rank(gctx, challenge.ID)
			if err != nil {
				return err
			}

			recaps[i] = ranking.BuildRecap(*group, challenge, rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("recap computed",
		zap.Int("limit", limit),
		zap.String("group_id", groupID),
		zap.Int("recaps", len(recaps)))
	return recaps, nil
}
