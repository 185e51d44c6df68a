package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"activity-tracker-be/pkg/eventbus"
	"activity-tracker-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher mirrors tracker events onto a NATS JetStream stream so
// off-process consumers (analytics, gamification) can feed on them.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewPublisher connects to NATS and ensures the TRACKER stream exists.
func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      "TRACKER",
		Subjects:  []string{"tracker.>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
	})
	if err != nil {
		// The broker may not be ready yet; publishing will surface errors.
		return &Publisher{nc: nc, js: js}, nil
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends one event to its subject (e.g. tracker.session_started).
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := fmt.Sprintf("tracker.%s", strings.ToLower(event.EventType()))
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Bridge forwards every bus event to NATS until ctx is cancelled.
func (p *Publisher) Bridge(ctx context.Context, bus *eventbus.Bus) error {
	return bus.Subscribe(ctx, func(ctx context.Context, event events.Event) error {
		return p.Publish(ctx, event)
	})
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
