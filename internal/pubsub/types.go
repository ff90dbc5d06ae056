package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// EventType represents the type of audit event sent via pubsub.
type EventType string

const (
	EventLogin            EventType = "login"
	EventLogout           EventType = "logout"
	EventCreated          EventType = "record-created"
	EventUpdated          EventType = "record-updated"
	EventDeleted          EventType = "record-deleted"
	EventStatusToggled    EventType = "record-status-toggled"
	EventBroadcastSent    EventType = "broadcast-sent"
	EventNotificationSent EventType = "notification-sent"
	EventExported         EventType = "exported"
)

// Event is one audit record of a dashboard action.
type Event struct {
	ID       string            `msgpack:"id"`
	Type     EventType         `msgpack:"type"`
	Resource string            `msgpack:"resource,omitempty"`
	RecordID int64             `msgpack:"record_id,omitempty"`
	Actor    string            `msgpack:"actor"`
	At       time.Time         `msgpack:"at"`
	Details  map[string]string `msgpack:"details,omitempty"`
}
