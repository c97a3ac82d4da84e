// Package testutil provides an in-memory store that satisfies the service
// repository interfaces for unit tests.
package testutil

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"runpool/internal/models"
)

// MemStore keeps everything in maps guarded by one mutex. Setting Err makes
// every method fail with it.
type MemStore struct {
	mu          sync.Mutex
	users       map[string]models.User
	groups      map[string]models.Group
	memberships map[string]models.Membership // keyed by group_id/user_id
	challenges  map[string]models.Challenge
	proofs      []models.Proof
	snapshots   map[string]map[string]models.SnapshotEntry

	Err            error
	ReplaceCalls   int
	ListProofCalls int
}

// NewMemStore creates an empty store
func NewMemStore() *MemStore {
	return &MemStore{
		users:       make(map[string]models.User),
		groups:      make(map[string]models.Group),
		memberships: make(map[string]models.Membership),
		challenges:  make(map[string]models.Challenge),
		snapshots:   make(map[string]map[string]models.SnapshotEntry),
	}
}

func membershipKey(groupID, userID string) string {
	return groupID + "/" + userID
}

// SeedGroup inserts a group and its memberships
func (s *MemStore) SeedGroup(g models.Group, members map[string]models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
	for userID, role := range members {
		s.memberships[membershipKey(g.ID, userID)] = models.Membership{
			ID:      uuid.NewString(),
			GroupID: g.ID,
			UserID:  userID,
			Role:    role,
		}
	}
}

// SeedUser inserts a user
func (s *MemStore) SeedUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// SeedChallenge inserts a challenge
func (s *MemStore) SeedChallenge(c models.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = c
}

// SeedProofs appends proofs, filling in names from seeded users
func (s *MemStore) SeedProofs(proofs ...models.Proof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range proofs {
		if p.UserName == "" {
			p.UserName = s.users[p.UserID].Name
		}
		s.proofs = append(s.proofs, p)
	}
}

// SeedSnapshot stores ranks for a challenge as if computed earlier
func (s *MemStore) SeedSnapshot(challengeID string, ranks map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make(map[string]models.SnapshotEntry, len(ranks))
	for userID, rank := range ranks {
		entries[userID] = models.SnapshotEntry{ChallengeID: challengeID, UserID: userID, Rank: rank}
	}
	s.snapshots[challengeID] = entries
}

// Snapshot returns a copy of the stored snapshot of a challenge
func (s *MemStore) Snapshot(challengeID string) map[string]models.SnapshotEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.SnapshotEntry, len(s.snapshots[challengeID]))
	for k, v := range s.snapshots[challengeID] {
		out[k] = v
	}
	return out
}

// Proofs returns a copy of all stored proofs
func (s *MemStore) Proofs() []models.Proof {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.proofs)
}

func (s *MemStore) CreateGroup(ctx context.Context, name, ownerUserID string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	g := models.Group{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	s.groups[g.ID] = g
	s.memberships[membershipKey(g.ID, ownerUserID)] = models.Membership{
		ID: uuid.NewString(), GroupID: g.ID, UserID: ownerUserID, Role: models.RoleOwner, JoinedAt: g.CreatedAt,
	}
	return &g, nil
}

func (s *MemStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	g, ok := s.groups[groupID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (s *MemStore) GetUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	groups := []models.Group{}
	for _, m := range s.memberships {
		if m.UserID == userID {
			groups = append(groups, s.groups[m.GroupID])
		}
	}
	slices.SortFunc(groups, func(a, b models.Group) int { return cmp.Compare(a.ID, b.ID) })
	return groups, nil
}

func (s *MemStore) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	m, ok := s.memberships[membershipKey(groupID, userID)]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MemStore) AddMember(ctx context.Context, groupID, userID string, role models.Role) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	m := models.Membership{ID: uuid.NewString(), GroupID: groupID, UserID: userID, Role: role, JoinedAt: time.Now().UTC()}
	s.memberships[membershipKey(groupID, userID)] = m
	return &m, nil
}

func (s *MemStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemStore) EnsureUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.users[user.ID]
	if ok && user.Name == "" {
		return nil
	}
	if !ok {
		user.CreatedAt = time.Now().UTC()
	} else {
		user.CreatedAt = existing.CreatedAt
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemStore) CreateChallenge(ctx context.Context, c *models.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.challenges[c.ID] = *c
	return nil
}

func (s *MemStore) GetChallenge(ctx context.Context, challengeID string) (*models.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.challenges[challengeID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemStore) GetOpenChallenge(ctx context.Context, groupID string) (*models.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var open *models.Challenge
	for _, c := range s.challenges {
		if c.GroupID == groupID && c.Status == models.ChallengeOpen {
			if open == nil || c.WeekEnd.After(open.WeekEnd) {
				c := c
				open = &c
			}
		}
	}
	return open, nil
}

func (s *MemStore) ListClosedChallenges(ctx context.Context, groupID string, limit int) ([]models.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	closed := []models.Challenge{}
	for _, c := range s.challenges {
		if c.Status != models.ChallengeClosed {
			continue
		}
		if groupID != "" && c.GroupID != groupID {
			continue
		}
		closed = append(closed, c)
	}
	slices.SortFunc(closed, func(a, b models.Challenge) int {
		if c := b.WeekEnd.Compare(a.WeekEnd); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(closed) > limit {
		closed = closed[:limit]
	}
	return closed, nil
}

func (s *MemStore) CloseChallenge(ctx context.Context, challengeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	c, ok := s.challenges[challengeID]
	if !ok || c.Status != models.ChallengeOpen {
		return false, nil
	}
	c.Status = models.ChallengeClosed
	s.challenges[challengeID] = c
	return true, nil
}

func (s *MemStore) CreateProof(ctx context.Context, p *models.Proof) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.proofs = append(s.proofs, *p)
	return nil
}

func (s *MemStore) ListProofs(ctx context.Context, challengeID string) ([]models.Proof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListProofCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.filterProofs(func(p models.Proof) bool { return p.ChallengeID == challengeID }), nil
}

func (s *MemStore) ListProofsForChallenges(ctx context.Context, challengeIDs []string) ([]models.Proof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.filterProofs(func(p models.Proof) bool { return slices.Contains(challengeIDs, p.ChallengeID) }), nil
}

func (s *MemStore) filterProofs(keep func(models.Proof) bool) []models.Proof {
	out := []models.Proof{}
	for _, p := range s.proofs {
		if keep(p) {
			if u, ok := s.users[p.UserID]; ok && u.Name != "" {
				p.UserName = u.Name
			}
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Proof) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

func (s *MemStore) LoadSnapshot(ctx context.Context, challengeID string) (map[string]models.SnapshotEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]models.SnapshotEntry, len(s.snapshots[challengeID]))
	for k, v := range s.snapshots[challengeID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemStore) ReplaceSnapshot(ctx context.Context, challengeID string, entries []models.SnapshotEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.ReplaceCalls++
	stored := make(map[string]models.SnapshotEntry, len(entries))
	for _, e := range entries {
		stored[e.UserID] = e
	}
	s.snapshots[challengeID] = stored
	return nil
}
