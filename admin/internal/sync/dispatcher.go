package sync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ashmetov/booklib/admin/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// Task is one catalog mutation to propagate to the public service.
type Task struct {
	Kind string          `json:"kind"`
	ISBN string          `json:"isbn"`
	Book *model.SyncBook `json:"book,omitempty"`
}

// Transport delivers a single task attempt. Delivery of a delete for an
// unknown isbn must be treated as success by implementations: the end state
// is already correct.
type Transport interface {
	DeliverUpsert(ctx context.Context, book model.SyncBook) error
	DeliverDelete(ctx context.Context, isbn string) error
}

type DeadLetterStore interface {
	StoreDeadLetter(ctx context.Context, kind, isbn string, payload []byte, attempts int, lastErr string) error
}

type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	BaseBackoff time.Duration
}

func (o *Options) withDefaults() {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 500 * time.Millisecond
	}
}

// Dispatcher propagates catalog mutations to the public service with
// at-least-once semantics: fire-and-forget from the caller's perspective,
// bounded exponential backoff per task, dead letter after exhaustion. A
// failed or dropped task never affects the admin request that enqueued it.
type Dispatcher struct {
	transport Transport
	dead      DeadLetterStore
	log       *zap.Logger

	tasks  chan Task
	gg     *errgroup.Group
	cancel context.CancelFunc

	opts Options
}

func NewDispatcher(transport Transport, dead DeadLetterStore, log *zap.Logger, opts Options) *Dispatcher {
	opts.withDefaults()
	return &Dispatcher{
		transport: transport,
		dead:      dead,
		log:       log.Named("sync"),
		tasks:     make(chan Task, opts.QueueSize),
		opts:      opts,
	}
}

func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.gg, ctx = errgroup.WithContext(ctx)
	for i := 0; i < d.opts.Workers; i++ {
		d.gg.Go(func() error {
			for task := range d.tasks {
				d.deliver(ctx, task)
			}
			return nil
		})
	}
}

func (d *Dispatcher) EnqueueUpsert(book model.SyncBook) {
	d.enqueue(Task{Kind: KindUpsert, ISBN: book.ISBN, Book: &book})
}

func (d *Dispatcher) EnqueueDelete(isbn string) {
	d.enqueue(Task{Kind: KindDelete, ISBN: isbn})
}

func (d *Dispatcher) enqueue(task Task) {
	select {
	case d.tasks <- task:
	default:
		// the queue is full; park the task in the dead letter store instead
		// of blocking the request handler
		d.log.Error("sync queue full", zap.String("kind", task.Kind), zap.String("isbn", task.ISBN))
		d.deadLetter(context.Background(), task, 0, "sync queue full")
	}
}

// Close stops accepting tasks and drains the queue within ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	close(d.tasks)
	done := make(chan struct{})
	go func() {
		_ = d.gg.Wait()
		close(done)
	}()
	defer d.cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, task Task) {
	var lastErr error
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		if lastErr = d.attempt(ctx, task); lastErr == nil {
			if attempt > 1 {
				d.log.Info("sync delivered after retry",
					zap.String("kind", task.Kind), zap.String("isbn", task.ISBN), zap.Int("attempt", attempt))
			}
			return
		}
		d.log.Warn("sync delivery failed",
			zap.String("kind", task.Kind), zap.String("isbn", task.ISBN),
			zap.Int("attempt", attempt), zap.Error(lastErr))

		if attempt == d.opts.MaxAttempts {
			break
		}
		backoff := d.opts.BaseBackoff << (attempt - 1)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			d.deadLetter(context.Background(), task, attempt, ctx.Err().Error())
			return
		}
	}
	// the worker ctx may already be cancelled during shutdown; the dead
	// letter must still be persisted
	d.deadLetter(context.Background(), task, d.opts.MaxAttempts, lastErr.Error())
}

func (d *Dispatcher) attempt(ctx context.Context, task Task) error {
	switch task.Kind {
	case KindDelete:
		return d.transport.DeliverDelete(ctx, task.ISBN)
	default:
		return d.transport.DeliverUpsert(ctx, *task.Book)
	}
}

func (d *Dispatcher) deadLetter(ctx context.Context, task Task, attempts int, lastErr string) {
	payload, err := json.Marshal(task)
	if err != nil {
		d.log.Error("dead letter marshal", zap.Error(err))
		return
	}
	if err := d.dead.StoreDeadLetter(ctx, task.Kind, task.ISBN, payload, attempts, lastErr); err != nil {
		d.log.Error("dead letter store",
			zap.String("kind", task.Kind), zap.String("isbn", task.ISBN), zap.Error(err))
	}
}
