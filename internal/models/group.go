package models

import "time"

// Role is a member's permission level inside a group
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Group is a set of runners competing in weekly challenges together
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership associates a user with a group. There is exactly one row per
// (group, user) pair.
type Membership struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// CanAdminister reports whether the member may manage challenges and members
func (m *Membership) CanAdminister() bool {
	return m.Role == RoleOwner || m.Role == RoleAdmin
}
