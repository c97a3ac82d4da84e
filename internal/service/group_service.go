package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"runpool/internal/models"
	"runpool/internal/validation"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotGroupMember = errors.New("user is not a member of this group")
	ErrForbidden      = errors.New("only group owners and admins can do this")
	ErrAlreadyMember  = errors.New("user is already a member of this group")
	ErrInvalidRole    = errors.New("invalid role")
)

// GroupService handles group and membership business logic
type GroupService struct {
	groups GroupRepository
	users  UserRepository
	logger *zap.Logger
}

// NewGroupService creates a new group service
func NewGroupService(groups GroupRepository, users UserRepository, logger *zap.Logger) *GroupService {
	return &GroupService{
		groups: groups,
		users:  users,
		logger: logger,
	}
}

// CreateGroup creates a new group with the creator as owner
func (s *GroupService) CreateGroup(ctx context.Context, name string, creator models.User) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	if err := s.users.EnsureUser(ctx, creator); err != nil {
		return nil, fmt.Errorf("failed to record user: %w", err)
	}

	group, err := s.groups.CreateGroup(ctx, name, creator.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("group created",
		zap.String("group_id", group.ID),
		zap.String("owner_id", creator.ID))
	return group, nil
}

// GetGroup retrieves a group by ID
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// ListUserGroups retrieves all groups a user belongs to
func (s *GroupService) ListUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := s.groups.GetUserGroups(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}
	return groups, nil
}

// GetMembership returns the user's membership or ErrNotGroupMember
func (s *GroupService) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	membership, err := s.groups.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, ErrNotGroupMember
	}
	return membership, nil
}

// RequireAdmin checks that the user may manage the group
func (s *GroupService) RequireAdmin(ctx context.Context, groupID, userID string) error {
	membership, err := s.GetMembership(ctx, groupID, userID)
	if errors.Is(err, ErrNotGroupMember) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if !membership.CanAdminister() {
		return ErrForbidden
	}
	return nil
}

// AddMember adds a user to a group. Only owners and admins may add members,
// and nobody can be added as a second owner.
func (s *GroupService) AddMember(ctx context.Context, actorID, groupID string, member models.User, role models.Role) (*models.Membership, error) {
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() || role == models.RoleOwner {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(member.ID) == "" {
		return nil, validation.ValidationError{Field: "user_id", Message: "user_id is required"}
	}

	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.RequireAdmin(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	existing, err := s.groups.GetMembership(ctx, groupID, member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	if err := s.users.EnsureUser(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to record user: %w", err)
	}

	membership, err := s.groups.AddMember(ctx, groupID, member.ID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return membership, nil
}
