package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"runpool/internal/models"
	"runpool/internal/testutil"
	"runpool/internal/validation"
)

func newChallengeService(store *testutil.MemStore) *ChallengeService {
	return NewChallengeService(store, NewGroupService(store, store, zap.NewNop()), zap.NewNop())
}

func TestOpenChallenge(t *testing.T) {
	start := time.Date(2026, 10, 5, 9, 30, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	tests := []struct {
		name    string
		actor   string
		start   time.Time
		end     time.Time
		pot     decimal.Decimal
		wantErr error
	}{
		{name: "owner opens", actor: "alice", start: start, end: end, pot: decimal.NewFromInt(25)},
		{name: "member cannot open", actor: "carol", start: start, end: end, wantErr: ErrForbidden},
		{name: "negative pot", actor: "alice", start: start, end: end, pot: decimal.NewFromInt(-1), wantErr: ErrInvalidPot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemStore()
			seedRunners(store)

			c, err := newChallengeService(store).OpenChallenge(context.Background(), tt.actor, "g1", tt.start, tt.end, tt.pot)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("OpenChallenge() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenChallenge() error = %v", err)
			}
			if c.Status != models.ChallengeOpen {
				t.Errorf("Status = %q", c.Status)
			}
			if c.WeekStart.Hour() != 0 {
				t.Errorf("WeekStart = %v, want truncated to the day", c.WeekStart)
			}
		})
	}
}

func TestOpenChallengeRejectsBackwardsWeek(t *testing.T) {
	store := testutil.NewMemStore()
	seedRunners(store)
	start := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)

	_, err := newChallengeService(store).OpenChallenge(context.Background(), "alice", "g1", start, start.AddDate(0, 0, -6), decimal.Zero)
	var verr validation.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("OpenChallenge() error = %v, want ValidationError", err)
	}
}

func TestOpenChallengeOnlyOneOpen(t *testing.T) {
	store := testutil.NewMemStore()
	seedRunners(store)
	svc := newChallengeService(store)
	ctx := context.Background()
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	if _, err := svc.OpenChallenge(ctx, "alice", "g1", start, start.AddDate(0, 0, 6), decimal.Zero); err != nil {
		t.Fatalf("first OpenChallenge() error = %v", err)
	}
	_, err := svc.OpenChallenge(ctx, "alice", "g1", start.AddDate(0, 0, 7), start.AddDate(0, 0, 13), decimal.Zero)
	if !errors.Is(err, ErrChallengeAlreadyOpen) {
		t.Errorf("second OpenChallenge() error = %v, want ErrChallengeAlreadyOpen", err)
	}
}

func TestCloseChallenge(t *testing.T) {
	store := testutil.NewMemStore()
	seedRunners(store)
	store.SeedChallenge(week("c1", "g1", 0, models.ChallengeOpen))
	svc := newChallengeService(store)
	ctx := context.Background()

	if _, err := svc.CloseChallenge(ctx, "carol", "c1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("member CloseChallenge() error = %v, want ErrForbidden", err)
	}

	c, err := svc.CloseChallenge(ctx, "bob", "c1")
	if err != nil {
		t.Fatalf("CloseChallenge() error = %v", err)
	}
	if c.Status != models.ChallengeClosed {
		t.Errorf("Status = %q", c.Status)
	}

	if _, err := svc.CloseChallenge(ctx, "bob", "c1"); !errors.Is(err, ErrChallengeClosed) {
		t.Errorf("second CloseChallenge() error = %v, want ErrChallengeClosed", err)
	}
	if _, err := svc.CloseChallenge(ctx, "bob", "missing"); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("CloseChallenge(missing) error = %v, want ErrChallengeNotFound", err)
	}
}

func TestCurrentChallenge(t *testing.T) {
	store := testutil.NewMemStore()
	seedRunners(store)
	svc := newChallengeService(store)
	ctx := context.Background()

	if _, err := svc.CurrentChallenge(ctx, "alice", "g1"); !errors.Is(err, ErrNoOpenChallenge) {
		t.Errorf("CurrentChallenge() error = %v, want ErrNoOpenChallenge", err)
	}

	store.SeedChallenge(week("c1", "g1", 0, models.ChallengeOpen))
	c, err := svc.CurrentChallenge(ctx, "alice", "g1")
	if err != nil || c.ID != "c1" {
		t.Errorf("CurrentChallenge() = %v, %v", c, err)
	}

	if _, err := svc.CurrentChallenge(ctx, "mallory", "g1"); !errors.Is(err, ErrNotGroupMember) {
		t.Errorf("outsider CurrentChallenge() error = %v, want ErrNotGroupMember", err)
	}
}
