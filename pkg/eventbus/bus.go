package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"activity-tracker-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topic carries every tracker event. Subscribers filter on the envelope type.
const Topic = "tracker.events"

// Handler processes one delivered event.
type Handler func(ctx context.Context, event events.Event) error

// envelope is the wire form of an event on the bus.
type envelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Bus is the in-process pub/sub fabric between the session tracker and its
// consumers (websocket hub, NATS bridge, logging). The tracker publishes
// into it without knowing who listens.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func New() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NopLogger{},
		),
	}
}

// Publish places an event on the bus. It never blocks the caller beyond the
// channel buffer; a closed bus returns an error.
func (b *Bus) Publish(event events.Event) error {
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return b.pubSub.Publish(Topic, msg)
}

// Subscribe registers a handler and consumes events on a background
// goroutine until ctx is cancelled. Handler errors ack the message anyway;
// the bus is fire-and-forget, retry policy belongs to the consumer.
func (b *Bus) Subscribe(ctx context.Context, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var env envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				msg.Ack()
				continue
			}
			_ = handler(ctx, events.BaseEvent{
				Type:       env.Type,
				Data:       env.Payload,
				OccurredAt: env.OccurredAt,
			})
			msg.Ack()
		}
	}()

	return nil
}

// Close shuts the underlying channel pub/sub down, closing all subscriber
// channels.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
