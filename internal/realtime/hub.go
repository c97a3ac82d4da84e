// Package realtime pushes recomputed leaderboards to stream subscribers
// whenever proofs for a challenge change.
package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"runpool/internal/metrics"
	"runpool/internal/models"
)

const pendingBuffer = 256

// Refresher recomputes the enriched standings of a challenge
type Refresher func(ctx context.Context, challengeID string) (*models.LeaderboardView, error)

// Subscription receives leaderboard updates for one challenge. C holds at
// most one pending view; a slow reader only ever sees the latest one.
type Subscription struct {
	ChallengeID string
	C           chan *models.LeaderboardView
}

// Hub fans challenge change notifications out to subscribers
type Hub struct {
	mu      sync.Mutex
	subs    map[string]map[*Subscription]struct{}
	pending chan string
	refresh Refresher
	logger  *zap.Logger
}

// NewHub creates a hub that uses refresh to rebuild views
func NewHub(refresh Refresher, logger *zap.Logger) *Hub {
	return &Hub{
		subs:    make(map[string]map[*Subscription]struct{}),
		pending: make(chan string, pendingBuffer),
		refresh: refresh,
		logger:  logger,
	}
}

// Publish records that a challenge changed. It never blocks; when the
// queue is full the change is dropped and logged.
func (h *Hub) Publish(challengeID string) {
	select {
	case h.pending <- challengeID:
	default:
		h.logger.Warn("realtime queue full, dropping change", zap.String("challenge_id", challengeID))
	}
}

// PublishSubscribed queues a refresh for every challenge with subscribers
func (h *Hub) PublishSubscribed() {
	for _, id := range h.subscribedChallenges() {
		h.Publish(id)
	}
}

// Subscribe registers for updates on a challenge. The returned function
// unregisters and must be called once the caller stops reading.
func (h *Hub) Subscribe(challengeID string) (*Subscription, func()) {
	sub := &Subscription{
		ChallengeID: challengeID,
		C:           make(chan *models.LeaderboardView, 1),
	}

	h.mu.Lock()
	set, ok := h.subs[challengeID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[challengeID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()
	metrics.StreamSubscribers.Inc()

	var once sync.Once
	return sub, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[challengeID], sub)
			if len(h.subs[challengeID]) == 0 {
				delete(h.subs, challengeID)
			}
			h.mu.Unlock()
			metrics.StreamSubscribers.Dec()
		})
	}
}

// SubscriberCount returns the number of subscribers to a challenge
func (h *Hub) SubscriberCount(challengeID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[challengeID])
}

// Broadcast delivers a view to every subscriber of its challenge without
// blocking, replacing any view a subscriber has not read yet
func (h *Hub) Broadcast(view *models.LeaderboardView) {
	h.mu.Lock()
	targets := make([]*Subscription, 0, len(h.subs[view.Challenge.ID]))
	for sub := range h.subs[view.Challenge.ID] {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	for _, sub := range targets {
		select {
		case <-sub.C:
		default:
		}
		select {
		case sub.C <- view:
		default:
		}
	}
}

// Run processes published changes until ctx is done. Changes that queue up
// while a refresh is running are coalesced per challenge.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-h.pending:
			batch := map[string]struct{}{id: {}}
		drain:
			for {
				select {
				case next := <-h.pending:
					batch[next] = struct{}{}
				default:
					break drain
				}
			}
			for challengeID := range batch {
				h.refreshOne(ctx, challengeID)
			}
		}
	}
}

func (h *Hub) refreshOne(ctx context.Context, challengeID string) {
	if h.SubscriberCount(challengeID) == 0 {
		return
	}

	view, err := h.refresh(ctx, challengeID)
	if err != nil {
		h.logger.Warn("failed to refresh leaderboard",
			zap.String("challenge_id", challengeID),
			zap.Error(err))
		return
	}
	h.Broadcast(view)
}

func (h *Hub) subscribedChallenges() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	return ids
}
