package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	listenerPingInterval = 90 * time.Second
)

// Publisher receives challenge ids whose proofs changed
type Publisher interface {
	Publish(challengeID string)
	PublishSubscribed()
}

// PGListener forwards Postgres NOTIFY payloads from the proof trigger to a
// Publisher
type PGListener struct {
	listener *pq.Listener
	target   Publisher
	logger   *zap.Logger
}

// NewPGListener connects to Postgres and subscribes to channel
func NewPGListener(dsn, channel string, target Publisher, logger *zap.Logger) (*PGListener, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("postgres listener problem", zap.Int("event", int(ev)), zap.Error(err))
		}
	}

	l := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, reportProblem)
	if err := l.Listen(channel); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", channel, err)
	}

	logger.Info("listening for proof changes", zap.String("channel", channel))
	return &PGListener{listener: l, target: target, logger: logger}, nil
}

// Run forwards notifications until ctx is done, then closes the listener
func (p *PGListener) Run(ctx context.Context) {
	defer p.listener.Close()

	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-p.listener.Notify:
			if n == nil {
				// Reconnected; notifications sent while down are lost.
				p.logger.Info("postgres listener reconnected")
				p.target.PublishSubscribed()
				continue
			}
			p.target.Publish(n.Extra)
		case <-ticker.C:
			if err := p.listener.Ping(); err != nil {
				p.logger.Warn("postgres listener ping failed", zap.Error(err))
			}
		}
	}
}
