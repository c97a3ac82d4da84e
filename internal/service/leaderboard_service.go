package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"runpool/internal/metrics"
	"runpool/internal/models"
	"runpool/internal/ranking"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
)

// LeaderboardService ranks challenge participants and enriches the
// standings with rank movement and streaks
type LeaderboardService struct {
	proofs       ProofRepository
	challenges   ChallengeRepository
	groups       GroupRepository
	snapshots    SnapshotRepository
	policy       ranking.Policy
	streakWindow int
	logger       *zap.Logger
	now          func() time.Time
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(
	proofs ProofRepository,
	challenges ChallengeRepository,
	groups GroupRepository,
	snapshots SnapshotRepository,
	policy ranking.Policy,
	streakWindow int,
	logger *zap.Logger,
) *LeaderboardService {
	if streakWindow < 1 {
		streakWindow = ranking.DefaultStreakWindow
	}
	return &LeaderboardService{
		proofs:       proofs,
		challenges:   challenges,
		groups:       groups,
		snapshots:    snapshots,
		policy:       policy,
		streakWindow: streakWindow,
		logger:       logger,
		now:          time.Now,
	}
}

// ComputeLeaderboard returns the ranked rows of a challenge. A challenge
// without proofs yields an empty slice.
func (s *LeaderboardService) ComputeLeaderboard(ctx context.Context, challengeID string) ([]models.LeaderboardRow, error) {
	challenge, err := s.getChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	return s.rank(ctx, challenge.ID)
}

// ComputeStreaks counts consecutive closed-challenge participation for each
// user, looking back over the group's most recent closed challenges
func (s *LeaderboardService) ComputeStreaks(ctx context.Context, groupID string, userIDs []string) (map[string]int, error) {
	closed, err := s.challenges.ListClosedChallenges(ctx, groupID, s.streakWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed challenges: %w", err)
	}
	if len(closed) == 0 {
		return ranking.ComputeStreaks(nil, nil, userIDs), nil
	}

	ids := make([]string, len(closed))
	for i, c := range closed {
		ids[i] = c.ID
	}
	proofs, err := s.proofs.ListProofsForChallenges(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs for streaks: %w", err)
	}

	return ranking.ComputeStreaks(closed, proofs, userIDs), nil
}

// Standings returns the enriched leaderboard of a challenge. Rank movement
// is measured against the server-held snapshot, which is replaced whenever
// the ranks have changed since it was taken.
func (s *LeaderboardService) Standings(ctx context.Context, challengeID string) (*models.LeaderboardView, error) {
	challenge, err := s.getChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	var (
		groupName string
		rows      []models.LeaderboardRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		group, err := s.groups.GetGroup(gctx, challenge.GroupID)
		if err != nil {
			return fmt.Errorf("failed to get group: %w", err)
		}
		if group != nil {
			groupName = group.Name
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = s.rank(gctx, challenge.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.applySnapshot(ctx, challenge.ID, rows)

	streaks, err := s.ComputeStreaks(ctx, challenge.GroupID, ranking.UserIDs(rows))
	if err != nil {
		return nil, err
	}
	ranking.ApplyStreaks(rows, streaks)

	return &models.LeaderboardView{
		Challenge: *challenge,
		GroupName: groupName,
		Rows:      rows,
	}, nil
}

func (s *LeaderboardService) getChallenge(ctx context.Context, challengeID string) (*models.Challenge, error) {
	challenge, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *LeaderboardService) rank(ctx context.Context, challengeID string) ([]models.LeaderboardRow, error) {
	proofs, err := s.proofs.ListProofs(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	metrics.LeaderboardComputations.Inc()
	return ranking.Rank(proofs, s.policy), nil
}

// applySnapshot fills in deltas and top-3 flags. When the ranks match the
// stored snapshot the stored change is served again, so repeated reads
// between proof changes show the same movement. An unreadable snapshot is
// treated as empty.
func (s *LeaderboardService) applySnapshot(ctx context.Context, challengeID string, rows []models.LeaderboardRow) {
	stored, err := s.snapshots.LoadSnapshot(ctx, challengeID)
	if err != nil {
		s.logger.Warn("failed to load leaderboard snapshot",
			zap.String("challenge_id", challengeID),
			zap.Error(err))
		stored = nil
	}

	previous := make(ranking.Snapshot, len(stored))
	for userID, entry := range stored {
		previous[userID] = entry.Rank
	}

	if sameRanks(previous, rows) {
		for i := range rows {
			entry := stored[rows[i].UserID]
			rows[i].RankDelta = entry.RankDelta
			rows[i].Movement = ranking.MovementFor(entry.RankDelta)
			rows[i].JoinedTop3 = entry.JoinedTop3
			rows[i].DroppedTop3 = entry.DroppedTop3
		}
		return
	}

	changes := ranking.ComputeRankDeltas(rows, previous)
	ranking.ApplyRankChanges(rows, changes)

	now := s.now().UTC()
	entries := make([]models.SnapshotEntry, len(rows))
	for i, r := range rows {
		entries[i] = models.SnapshotEntry{
			ChallengeID: challengeID,
			UserID:      r.UserID,
			Rank:        r.Rank,
			RankDelta:   r.RankDelta,
			JoinedTop3:  r.JoinedTop3,
			DroppedTop3: r.DroppedTop3,
			UpdatedAt:   now,
		}
	}
	if err := s.snapshots.ReplaceSnapshot(ctx, challengeID, entries); err != nil {
		// The movement is still correct for this response; the next read
		// will compare against the older snapshot again.
		s.logger.Warn("failed to store leaderboard snapshot",
			zap.String("challenge_id", challengeID),
			zap.Error(err))
	}
}

func sameRanks(previous ranking.Snapshot, rows []models.LeaderboardRow) bool {
	if len(previous) != len(rows) {
		return false
	}
	for _, r := range rows {
		if rank, ok := previous[r.UserID]; !ok || rank != r.Rank {
			return false
		}
	}
	return true
}
