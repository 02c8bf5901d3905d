package audit

import (
	"context"
	"log/slog"
)

// Sink forwards events to an external system.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes events from the publisher's inbox and persists them. Sink
// failures are logged, never fatal: the store remains the local record.
type Worker struct {
	store  Store
	inbox  <-chan Event
	sink   Sink
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, sink Sink, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, sink: sink, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Error("failed to persist audit event",
					"action", event.Action, "error", err)
			}
			if w.sink != nil {
				if err := w.sink.Publish(ctx, event); err != nil {
					w.logger.Error("failed to forward audit event",
						"action", event.Action, "error", err)
				}
			}
		}
	}
}
