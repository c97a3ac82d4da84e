package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"runpool/internal/models"
	"runpool/internal/testutil"
	"runpool/internal/validation"
)

func TestCreateGroupMakesCreatorOwner(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewGroupService(store, store, zap.NewNop())
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "  Dawn Patrol ", models.User{ID: "alice", Name: "Alice"})
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if group.Name != "Dawn Patrol" {
		t.Errorf("Name = %q, want trimmed", group.Name)
	}

	m, err := svc.GetMembership(ctx, group.ID, "alice")
	if err != nil {
		t.Fatalf("GetMembership() error = %v", err)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("Role = %q, want owner", m.Role)
	}
	if u, _ := store.GetUser(ctx, "alice"); u == nil || u.Name != "Alice" {
		t.Errorf("creator was not recorded: %+v", u)
	}
}

func TestCreateGroupValidatesName(t *testing.T) {
	svc := NewGroupService(testutil.NewMemStore(), testutil.NewMemStore(), zap.NewNop())

	_, err := svc.CreateGroup(context.Background(), " ", models.User{ID: "alice"})
	var verr validation.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("CreateGroup() error = %v, want ValidationError", err)
	}
}

func TestAddMember(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		member  string
		role    models.Role
		wantErr error
	}{
		{name: "owner adds member", actor: "alice", member: "erin", role: models.RoleMember},
		{name: "admin adds admin", actor: "bob", member: "erin", role: models.RoleAdmin},
		{name: "default role", actor: "alice", member: "erin", role: ""},
		{name: "member cannot add", actor: "carol", member: "erin", role: models.RoleMember, wantErr: ErrForbidden},
		{name: "outsider cannot add", actor: "mallory", member: "erin", role: models.RoleMember, wantErr: ErrForbidden},
		{name: "no second owner", actor: "alice", member: "erin", role: models.RoleOwner, wantErr: ErrInvalidRole},
		{name: "already member", actor: "alice", member: "carol", role: models.RoleMember, wantErr: ErrAlreadyMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemStore()
			seedRunners(store)
			svc := NewGroupService(store, store, zap.NewNop())

			m, err := svc.AddMember(context.Background(), tt.actor, "g1", models.User{ID: tt.member, Name: "Erin"}, tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("AddMember() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddMember() error = %v", err)
			}
			if tt.role == "" && m.Role != models.RoleMember {
				t.Errorf("Role = %q, want member", m.Role)
			}
		})
	}
}

func TestAddMemberUnknownGroup(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewGroupService(store, store, zap.NewNop())

	_, err := svc.AddMember(context.Background(), "alice", "nope", models.User{ID: "erin"}, models.RoleMember)
	if !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("AddMember() error = %v, want ErrGroupNotFound", err)
	}
}
