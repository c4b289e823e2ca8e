package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// LeadPublisher broadcasts captured-lead events for downstream consumers
// (mail notifier, CRM sync). Publishing is best-effort.
type LeadPublisher interface {
	PublishLead(ctx context.Context, kind string, payload interface{})
}

type leadEvent struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

// NATSLeadPublisher publishes lead events to NATS subjects under a base
// subject (e.g. leads.contact_message, leads.waiting_list).
type NATSLeadPublisher struct {
	conn        *nats.Conn
	subjectBase string
	logger      zerolog.Logger
}

// NewNATSLeadPublisher constructs a publisher. A nil connection yields a
// publisher that silently drops events, so wiring stays optional.
func NewNATSLeadPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) *NATSLeadPublisher {
	if subjectBase == "" {
		subjectBase = "leads"
	}
	return &NATSLeadPublisher{
		conn:        conn,
		subjectBase: subjectBase,
		logger:      logger.With().Str("component", "lead_publisher").Logger(),
	}
}

// PublishLead marshals and publishes the event. Failures are logged and
// swallowed; lead capture never depends on the event bus.
func (p *NATSLeadPublisher) PublishLead(_ context.Context, kind string, payload interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	event := leadEvent{Kind: kind, Payload: payload, SentAt: time.Now().UTC()}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("kind", kind).Msg("failed to marshal lead event")
		return
	}

	subject := p.subjectBase + "." + kind
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish lead event")
	}
}
