package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/paddio-admin/internal/metrics"
	"github.com/mauv0809/paddio-admin/internal/notifier"
	"github.com/slack-go/slack"
)

// poster is the slice of the Slack client the notifier needs.
type poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

const timeLayout = "02/01/2006 15:04"

// Notifier mirrors dashboard actions into an operations channel.
type Notifier struct {
	api       poster
	channelID string
	metrics   metrics.Metrics
	location  *time.Location
}

// NewNotifier posts to channelID with a bot token.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return newNotifier(slack.New(token), channelID, metrics)
}

func newNotifier(api poster, channelID string, metrics metrics.Metrics) *Notifier {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		loc = time.UTC
	}
	return &Notifier{api: api, channelID: channelID, metrics: metrics, location: loc}
}

// post delivers message to the channel. In dry-run mode the blocks are only logged.
func (s *Notifier) post(ctx context.Context, message slack.Message, dryRun bool) error {
	if dryRun {
		blocks, _ := json.Marshal(message.Blocks)
		log.Info("[Dry Run] Slack message not posted", "channel", s.channelID, "blocks", string(blocks))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, ts, err := s.api.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Slack post failed", "error", err, "channel", s.channelID)
		return fmt.Errorf("post to %s: %w", s.channelID, err)
	}
	s.metrics.IncSlackNotifSent()
	log.Debug("Slack message posted", "channel", s.channelID, "ts", ts)
	return nil
}

// AnnounceBroadcast posts a summary of an accepted broadcast.
func (s *Notifier) AnnounceBroadcast(ctx context.Context, b notifier.Broadcast, dryRun bool) error {
	return s.post(ctx, s.formatBroadcast(b), dryRun)
}

// AnnounceDeletion posts a notice about a deleted record.
func (s *Notifier) AnnounceDeletion(ctx context.Context, d notifier.Deletion, dryRun bool) error {
	return s.post(ctx, s.formatDeletion(d), dryRun)
}

func (s *Notifier) formatBroadcast(b notifier.Broadcast) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📣 Notificación enviada", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	body := fmt.Sprintf("*%s*\n%s", b.Request.Title, b.Request.Body)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", body, false, false), nil, nil))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Enviadas:*\n%d (%d fallidas)", b.Result.SentCount, b.Result.FailedCount), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Audiencia:*\n%s", audience(b)), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	var footer []string
	if b.SentBy != "" {
		footer = append(footer, "Enviada por "+b.SentBy)
	}
	if !b.SentAt.IsZero() {
		footer = append(footer, b.SentAt.In(s.location).Format(timeLayout))
	}
	if len(footer) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", strings.Join(footer, " · "), true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatDeletion(d notifier.Deletion) slack.Message {
	text := fmt.Sprintf("🗑️ %s eliminó %s #%d", orUnknown(d.DeletedBy), d.Resource, d.RecordID)
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
	}
	if !d.At.IsZero() {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", d.At.In(s.location).Format(timeLayout), true, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

func audience(b notifier.Broadcast) string {
	parts := []string{"Todas las categorías"}
	if b.Request.Category != nil && *b.Request.Category != "" {
		parts[0] = "Categoría " + *b.Request.Category
	}
	if b.Request.OnlyActive() {
		parts = append(parts, "solo activos")
	}
	return strings.Join(parts, ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return "Alguien"
	}
	return s
}
