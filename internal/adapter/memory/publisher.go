package memory

import (
	"context"
	"log/slog"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// LogPublisher writes events to the structured log instead of a broker. It is
// the default publisher when NATS is not configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, evt domain.Event) error {
	p.logger.Info("campaign event",
		slog.String("type", string(evt.Type)),
		slog.String("organization_id", evt.OrganizationID),
		slog.String("campaign_id", evt.CampaignID),
		slog.String("actor_id", evt.ActorID),
	)
	return nil
}

var _ port.EventPublisher = (*LogPublisher)(nil)
