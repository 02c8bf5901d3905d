package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rgckd/hc-self-service-portal/pkg/requestcontext"
)

// Publisher hands events to the worker through a buffered channel. Emit
// never blocks the request path: when the buffer is full the event is
// dropped and counted in the log.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{inbox: make(chan Event, buffer), logger: logger}
}

// Inbox exposes the channel the worker consumes.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Emit stamps the event with ID, timestamp (request-scoped clock), request
// ID, and client IP, then queues it.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit inbox full, dropping event", "action", event.Action)
	}
}
