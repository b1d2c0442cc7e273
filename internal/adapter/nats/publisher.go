// Package natsadapter publishes campaign events to NATS for the notification layer.
package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// subjectPrefix prefixes every published subject; the event type completes
// it, e.g. notifications.campaign.stage_changed.
const subjectPrefix = "notifications."

// Publisher implements port.EventPublisher over a NATS connection. Publishing
// is non-fatal by contract: the engine logs returned errors and continues.
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewPublisher(conn *nats.Conn, logger *slog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

func (p *Publisher) Publish(_ context.Context, evt domain.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	subject := subjectPrefix + string(evt.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug("event published",
		slog.String("subject", subject),
		slog.String("campaign_id", evt.CampaignID))
	return nil
}

var _ port.EventPublisher = (*Publisher)(nil)
