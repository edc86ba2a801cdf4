package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/serenatasalon/booking-api/internal/observability/metrics"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

// Listener holds a dedicated Postgres connection on LISTEN and republishes
// every notification through the hub. The connection is re-established after
// failures; notifications raised while disconnected are lost, which is
// acceptable because consumers recompute from the store on every event.
type Listener struct {
	databaseURL    string
	channel        string
	reconnectDelay time.Duration
	hub            *Hub
	metrics        *metrics.BookingMetrics
	logger         *logging.Logger
}

// NewListener creates a change feed listener.
func NewListener(databaseURL, channel string, reconnectDelay time.Duration, hub *Hub, m *metrics.BookingMetrics, logger *logging.Logger) *Listener {
	if hub == nil {
		panic("changefeed: hub required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	return &Listener{
		databaseURL:    databaseURL,
		channel:        channel,
		reconnectDelay: reconnectDelay,
		hub:            hub,
		metrics:        m,
		logger:         logger,
	}
}

// Run blocks, listening for notifications until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Error("change feed connection lost, reconnecting",
				"error", err, "delay", l.reconnectDelay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.databaseURL)
	if err != nil {
		return fmt.Errorf("changefeed: connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("changefeed: listen %s: %w", l.channel, err)
	}
	l.logger.Info("change feed listening", "channel", l.channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			return fmt.Errorf("changefeed: wait: %w", err)
		}

		var evt Event
		if err := json.Unmarshal([]byte(notification.Payload), &evt); err != nil {
			l.logger.Warn("change feed payload not understood",
				"error", err, "payload", notification.Payload)
			continue
		}
		l.metrics.ObserveFeedEvent(evt.Table, evt.Action)
		l.hub.Publish(evt)
	}
}
