package models

import (
	"testing"
	"time"
)

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleOwner, true},
		{RoleAdmin, true},
		{RoleMember, true},
		{Role("coach"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Valid(); got != tt.want {
				t.Errorf("Role(%q).Valid() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestMembershipCanAdminister(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "owner", role: RoleOwner, want: true},
		{name: "admin", role: RoleAdmin, want: true},
		{name: "member", role: RoleMember, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Membership{GroupID: "g1", UserID: "u1", Role: tt.role}
			if got := m.CanAdminister(); got != tt.want {
				t.Errorf("CanAdminister() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChallengeIsOpen(t *testing.T) {
	tests := []struct {
		status ChallengeStatus
		want   bool
	}{
		{ChallengeOpen, true},
		{ChallengeClosed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			c := Challenge{
				WeekStart: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
				WeekEnd:   time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC),
				Status:    tt.status,
			}
			if got := c.IsOpen(); got != tt.want {
				t.Errorf("IsOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}
