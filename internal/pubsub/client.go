package pubsub

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Pub/Sub and publishes to topicID. With an empty projectID
// audit events are only logged.
func New(ctx context.Context, projectID, topicID string) (Publisher, error) {
	if projectID == "" {
		log.Info("GCP_PROJECT not set, audit events will only be logged")
		return Noop{}, nil
	}
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{
		client: pubSubC,
		topic:  pubSubC.Topic(topicID),
	}, nil
}

// Publish encodes the event with MessagePack and waits for the server ack.
func (c *client) Publish(ctx context.Context, event Event) error {
	event = prepare(event)
	data, err := Encode(event)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"type":     string(event.Type),
			"resource": event.Resource,
		},
	}
	result := c.topic.Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish audit event", "error", err, "topic", c.topic.ID(), "type", event.Type)
		return err
	}
	log.Debug("Published audit event", "serverID", serverID, "type", event.Type)
	return nil
}

func (c *client) Close() error {
	c.topic.Stop()
	return c.client.Close()
}

func prepare(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	return event
}

// Encode serializes an event for the wire.
func Encode(event Event) ([]byte, error) {
	return msgpack.Marshal(&event)
}

// Decode reads an event produced by Publish.
func Decode(data []byte) (Event, error) {
	var event Event
	if err := msgpack.Unmarshal(data, &event); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return Event{}, err
	}
	return event, nil
}

// Noop logs events instead of publishing them.
type Noop struct{}

func (Noop) Publish(ctx context.Context, event Event) error {
	event = prepare(event)
	log.Info("Audit event", "type", event.Type, "resource", event.Resource, "record", event.RecordID, "actor", event.Actor)
	return nil
}

func (Noop) Close() error { return nil }
