package notifier

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// Broadcast describes a notification the API accepted.
type Broadcast struct {
	Request paddio.BroadcastRequest
	Result  paddio.NotificationResult
	SentBy  string
	SentAt  time.Time
}

// Deletion describes a record removed from the platform.
type Deletion struct {
	Resource  string
	RecordID  int64
	DeletedBy string
	At        time.Time
}

// Notifier defines a high-level interface for telling the operations team
// about dashboard actions. This decouples the rest of the application from the
// specific notification provider (e.g., Slack).
type Notifier interface {
	AnnounceBroadcast(ctx context.Context, b Broadcast, dryRun bool) error
	AnnounceDeletion(ctx context.Context, d Deletion, dryRun bool) error
}

// Noop is used when no notification channel is configured.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) AnnounceBroadcast(ctx context.Context, b Broadcast, dryRun bool) error {
	log.Debug("No notification channel configured, skipping broadcast announcement", "title", b.Request.Title)
	return nil
}

func (Noop) AnnounceDeletion(ctx context.Context, d Deletion, dryRun bool) error {
	log.Debug("No notification channel configured, skipping deletion announcement", "resource", d.Resource, "id", d.RecordID)
	return nil
}
