// Package events publishes domain events to NATS for downstream consumers
// (mailers, activity feeds). Publishing is best-effort: a failed or absent
// broker never fails the originating request.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event names emitted by the API.
const (
	EnrollmentCreated   = "enrollment.created"
	GradeAssigned       = "grade.assigned"
	SubmissionCommented = "submission.commented"
)

// Publisher emits JSON-encoded domain events on a NATS subject tree.
type Publisher struct {
	conn        *nats.Conn
	subjectBase string
	logger      zerolog.Logger
	now         func() time.Time
}

type envelope struct {
	Event   string      `json:"event"`
	SentAt  time.Time   `json:"sent_at"`
	Payload interface{} `json:"payload"`
}

// NewPublisher wraps a NATS connection. A nil connection yields a no-op
// publisher so callers don't need to branch.
func NewPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) *Publisher {
	if subjectBase == "" {
		subjectBase = "lentera.events"
	}

	return &Publisher{
		conn:        conn,
		subjectBase: subjectBase,
		logger:      logger.With().Str("component", "event_publisher").Logger(),
		now:         time.Now,
	}
}

// Publish emits an event with the given payload. Errors are logged, not
// returned.
func (p *Publisher) Publish(_ context.Context, event string, payload interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(envelope{
		Event:   event,
		SentAt:  p.now().UTC(),
		Payload: payload,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}

	subject := fmt.Sprintf("%s.%s", p.subjectBase, event)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}
