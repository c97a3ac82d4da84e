package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"runpool/internal/database"
	"runpool/internal/models"
)

// GroupRepository handles database operations for groups and memberships
type GroupRepository struct {
	db *database.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *database.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup creates a new group and adds the creator as its owner
func (r *GroupRepository) CreateGroup(ctx context.Context, name, ownerUserID string) (*models.Group, error) {
	now := time.Now().UTC()
	group := &models.Group{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
	}

	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		query := "INSERT INTO run_groups (id, name, created_at) VALUES (?, ?, ?)"
		if _, err := tx.ExecContext(ctx, query, group.ID, group.Name, group.CreatedAt); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		query = "INSERT INTO memberships (id, group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?, ?)"
		if _, err := tx.ExecContext(ctx, query, uuid.NewString(), group.ID, ownerUserID, models.RoleOwner, now); err != nil {
			return fmt.Errorf("failed to add group owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// GetGroup retrieves a group by ID, returning nil when it does not exist
func (r *GroupRepository) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	query := "SELECT id, name, created_at FROM run_groups WHERE id = ?"
	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, groupID).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetUserGroups retrieves all groups a user belongs to
func (r *GroupRepository) GetUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	query := `
		SELECT g.id, g.name, g.created_at
		FROM run_groups g
		INNER JOIN memberships m ON g.id = m.group_id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GetMembership returns the user's membership in a group, or nil
func (r *GroupRepository) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	query := "SELECT id, group_id, user_id, role, joined_at FROM memberships WHERE group_id = ? AND user_id = ?"
	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// AddMember adds a user to a group with the given role
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID string, role models.Role) (*models.Membership, error) {
	m := &models.Membership{
		ID:       uuid.NewString(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	query := "INSERT INTO memberships (id, group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.GroupID, m.UserID, m.Role, m.JoinedAt); err != nil {
		return nil, fmt.Errorf("failed to add group member: %w", err)
	}
	return m, nil
}
