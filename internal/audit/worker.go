package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Queue buffers events for background delivery so slow sinks stay off the
// request path. Append never blocks; a full buffer rejects the event and
// leaves the caller to log the loss.
type Queue struct {
	inbox chan Event
}

func NewQueue(size int) *Queue {
	return &Queue{inbox: make(chan Event, size)}
}

func (q *Queue) Append(_ context.Context, event Event) error {
	select {
	case q.inbox <- event:
		return nil
	default:
		return fmt.Errorf("audit queue full, %s event dropped", event.Action)
	}
}

// ListByCase is unsupported; pair the queue with an InMemoryStore via Tee
// when the API needs to serve event lists.
func (q *Queue) ListByCase(context.Context, uuid.UUID) ([]Event, error) {
	return nil, fmt.Errorf("audit queue does not support reads")
}

const flushTimeout = 5 * time.Second

// Worker drains a Queue into a store. Delivery failures are logged rather
// than propagated; a broken sink must not take the service down.
type Worker struct {
	store  Store
	queue  *Queue
	logger *slog.Logger
}

func NewWorker(store Store, queue *Queue, logger *slog.Logger) *Worker {
	return &Worker{store: store, queue: queue, logger: logger}
}

// Run delivers events until ctx is canceled, then flushes whatever is left
// in the buffer before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return nil
		case event := <-w.queue.inbox:
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	for {
		select {
		case event := <-w.queue.inbox:
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.Warn("audit event delivery failed",
			"action", string(event.Action), "case_id", event.CaseID.String(), "error", err)
	}
}
