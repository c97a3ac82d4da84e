package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"runpool/internal/models"
)

type countingRefresher struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (r *countingRefresher) refresh(ctx context.Context, challengeID string) (*models.LeaderboardView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[challengeID]++
	if r.err != nil {
		return nil, r.err
	}
	return &models.LeaderboardView{
		Challenge: models.Challenge{ID: challengeID},
		Rows:      []models.LeaderboardRow{{UserID: "u1", Rank: 1, Miles: float64(r.calls[challengeID])}},
	}, nil
}

func (r *countingRefresher) count(challengeID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[challengeID]
}

func TestHubDeliversRefreshedView(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &countingRefresher{}
	hub := NewHub(r.refresh, zap.NewNop())
	go hub.Run(ctx)

	sub, unsubscribe := hub.Subscribe("c1")
	defer unsubscribe()

	hub.Publish("c1")

	select {
	case view := <-sub.C:
		if view.Challenge.ID != "c1" || len(view.Rows) != 1 {
			t.Errorf("view = %+v", view)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestHubSkipsChallengesWithoutSubscribers(t *testing.T) {
	r := &countingRefresher{}
	hub := NewHub(r.refresh, zap.NewNop())

	hub.refreshOne(context.Background(), "c1")
	if r.count("c1") != 0 {
		t.Errorf("refresh called %d times, want 0", r.count("c1"))
	}
}

func TestHubRefreshErrorIsNotBroadcast(t *testing.T) {
	r := &countingRefresher{err: errors.New("store down")}
	hub := NewHub(r.refresh, zap.NewNop())
	sub, unsubscribe := hub.Subscribe("c1")
	defer unsubscribe()

	hub.refreshOne(context.Background(), "c1")

	select {
	case v := <-sub.C:
		t.Errorf("unexpected view %+v", v)
	default:
	}
}

func TestBroadcastKeepsLatestForSlowReader(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	sub, unsubscribe := hub.Subscribe("c1")
	defer unsubscribe()

	for i := 1; i <= 3; i++ {
		hub.Broadcast(&models.LeaderboardView{
			Challenge: models.Challenge{ID: "c1"},
			GroupName: string(rune('a' + i - 1)),
		})
	}

	view := <-sub.C
	if view.GroupName != "c" {
		t.Errorf("GroupName = %q, want latest view c", view.GroupName)
	}
}

func TestUnsubscribe(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	_, unsubA := hub.Subscribe("c1")
	_, unsubB := hub.Subscribe("c1")

	if n := hub.SubscriberCount("c1"); n != 2 {
		t.Fatalf("SubscriberCount = %d, want 2", n)
	}

	unsubA()
	unsubA()
	if n := hub.SubscriberCount("c1"); n != 1 {
		t.Errorf("SubscriberCount after unsubscribe = %d, want 1", n)
	}

	unsubB()
	if ids := hub.subscribedChallenges(); len(ids) != 0 {
		t.Errorf("subscribedChallenges = %v, want none", ids)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < pendingBuffer*2; i++ {
			hub.Publish("c1")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with no consumer")
	}
}
