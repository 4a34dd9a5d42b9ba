// Package chat carries the workshop channel traffic: free-text user
// messages in, formatted coordinator replies out. Transport adapters
// (HTTP ingestion, websocket fan-out) sit on the edges of the bus.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	topicInbound  = "chat.inbound"
	topicOutbound = "chat.outbound"

	// CoordinatorSource identifies coordinator-authored posts so they
	// are never routed back into the workflow as user input.
	CoordinatorSource = "creation-coordinator"
)

// Message is one chat channel post.
type Message struct {
	Channel  string    `json:"channel"`
	Text     string    `json:"text"`
	SourceId string    `json:"source_id"`
	SentAt   time.Time `json:"sent_at"`
}

// Handler processes one chat message.
type Handler func(ctx context.Context, msg Message) error

// Poster is the outbound channel-post sink the coordinator writes to.
type Poster interface {
	Post(ctx context.Context, text string) error
}

// Bus is an in-process chat channel on watermill gochannel pub/sub.
type Bus struct {
	pubSub  *gochannel.GoChannel
	channel string
}

// NewBus creates the chat bus for one workshop channel.
func NewBus(channel string, logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubSub:  gochannel.NewGoChannel(gochannel.Config{}, logger),
		channel: channel,
	}
}

// Channel returns the workshop channel name this bus serves.
func (b *Bus) Channel() string {
	return b.channel
}

// Post publishes a coordinator reply to the channel.
func (b *Bus) Post(ctx context.Context, text string) error {
	return b.publish(topicOutbound, Message{
		Channel:  b.channel,
		Text:     text,
		SourceId: CoordinatorSource,
		SentAt:   time.Now(),
	})
}

// PublishInbound feeds a user-authored message into the channel.
func (b *Bus) PublishInbound(ctx context.Context, msg Message) error {
	if msg.Channel == "" {
		msg.Channel = b.channel
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	return b.publish(topicInbound, msg)
}

// ConsumeInbound runs handler for every inbound message until ctx is
// cancelled. Handler errors are contained per message; the stream keeps
// flowing.
func (b *Bus) ConsumeInbound(ctx context.Context, handler Handler) error {
	return b.consume(ctx, topicInbound, handler)
}

// ConsumeOutbound runs handler for every coordinator post, for
// transport adapters like the websocket hub.
func (b *Bus) ConsumeOutbound(ctx context.Context, handler Handler) error {
	return b.consume(ctx, topicOutbound, handler)
}

func (b *Bus) publish(topic string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}
	return b.pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), data))
}

func (b *Bus) consume(ctx context.Context, topic string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		for wm := range messages {
			var msg Message
			if err := json.Unmarshal(wm.Payload, &msg); err != nil {
				wm.Ack() // undecodable, retrying cannot help
				continue
			}
			_ = handler(ctx, msg)
			wm.Ack()
		}
	}()

	return nil
}

// Close shuts the underlying pub/sub down.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
