package service

import (
	"context"

	"runpool/internal/models"
)

// ProofRepository reads and writes run proofs
type ProofRepository interface {
	CreateProof(ctx context.Context, p *models.Proof) error
	ListProofs(ctx context.Context, challengeID string) ([]models.Proof, error)
	ListProofsForChallenges(ctx context.Context, challengeIDs []string) ([]models.Proof, error)
}

// ChallengeRepository reads and writes weekly challenges. Lookups return
// nil without an error when the challenge does not exist.
type ChallengeRepository interface {
	CreateChallenge(ctx context.Context, c *models.Challenge) error
	GetChallenge(ctx context.Context, challengeID string) (*models.Challenge, error)
	GetOpenChallenge(ctx context.Context, groupID string) (*models.Challenge, error)
	ListClosedChallenges(ctx context.Context, groupID string, limit int) ([]models.Challenge, error)
	CloseChallenge(ctx context.Context, challengeID string) (bool, error)
}

// GroupRepository reads and writes groups and memberships
type GroupRepository interface {
	CreateGroup(ctx context.Context, name, ownerUserID string) (*models.Group, error)
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetUserGroups(ctx context.Context, userID string) ([]models.Group, error)
	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)
	AddMember(ctx context.Context, groupID, userID string, role models.Role) (*models.Membership, error)
}

// UserRepository mirrors authenticated identities
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	EnsureUser(ctx context.Context, user models.User) error
}

// SnapshotRepository holds the last computed ranks per challenge
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context, challengeID string) (map[string]models.SnapshotEntry, error)
	ReplaceSnapshot(ctx context.Context, challengeID string, entries []models.SnapshotEntry) error
}
