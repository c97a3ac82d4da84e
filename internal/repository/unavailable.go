package repository

import (
	"context"

	"runpool/internal/models"
)

// Unavailable stands in for every repository when the store cannot be
// reached at startup (for example DATABASE_URL is unset). Each call returns
// Err so requests report the configuration problem instead of crashing.
type Unavailable struct {
	Err error
}

func (u Unavailable) CreateGroup(ctx context.Context, name, ownerUserID string) (*models.Group, error) {
	return nil, u.Err
}

func (u Unavailable) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return nil, u.Err
}

func (u Unavailable) GetUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	return nil, u.Err
}

func (u Unavailable) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	return nil, u.Err
}

func (u Unavailable) AddMember(ctx context.Context, groupID, userID string, role models.Role) (*models.Membership, error) {
	return nil, u.Err
}

func (u Unavailable) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return nil, u.Err
}

func (u Unavailable) EnsureUser(ctx context.Context, user models.User) error {
	return u.Err
}

func (u Unavailable) CreateChallenge(ctx context.Context, c *models.Challenge) error {
	return u.Err
}

func (u Unavailable) GetChallenge(ctx context.Context, challengeID string) (*models.Challenge, error) {
	return nil, u.Err
}

func (u Unavailable) GetOpenChallenge(ctx context.Context, groupID string) (*models.Challenge, error) {
	return nil, u.Err
}

func (u Unavailable) ListClosedChallenges(ctx context.Context, groupID string, limit int) ([]models.Challenge, error) {
	return nil, u.Err
}

func (u Unavailable) CloseChallenge(ctx context.Context, challengeID string) (bool, error) {
	return false, u.Err
}

func (u Unavailable) CreateProof(ctx context.Context, p *models.Proof) error {
	return u.Err
}

func (u Unavailable) ListProofs(ctx context.Context, challengeID string) ([]models.Proof, error) {
	return nil, u.Err
}

func (u Unavailable) ListProofsForChallenges(ctx context.Context, challengeIDs []string) ([]models.Proof, error) {
	return nil, u.Err
}

func (u Unavailable) LoadSnapshot(ctx context.Context, challengeID string) (map[string]models.SnapshotEntry, error) {
	return nil, u.Err
}

func (u Unavailable) ReplaceSnapshot(ctx context.Context, challengeID string, entries []models.SnapshotEntry) error {
	return u.Err
}
