package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
)

// Sink delivers one event to one outbound channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, ev domain.Event) error
}

type Options struct {
	QueueSize   int
	Workers     int
	Retry       RetryPolicy
	SendTimeout time.Duration
}

// Dispatcher fans events out to every sink from background workers.
// Publish never blocks; a full queue drops the event.
type Dispatcher struct {
	sinks []Sink
	opts  Options
	log   *zerolog.Logger
	queue chan domain.Event
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sinks []Sink, opts Options, log *zerolog.Logger) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		sinks: sinks,
		opts:  opts,
		log:   log,
		queue: make(chan domain.Event, opts.QueueSize),
	}

	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) Publish(ev domain.Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		metrics.IncDropped("notify")
		d.log.Warn().
			Str("event_id", ev.ID).
			Str("event_type", string(ev.Type)).
			Msg("Notify queue full, dropping event")
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		for _, sink := range d.sinks {
			d.deliver(sink, ev)
		}
	}
}

func (d *Dispatcher) deliver(sink Sink, ev domain.Event) {
	attempts := d.opts.Retry.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.SendTimeout)
		err := sink.Send(ctx, ev)
		cancel()

		if err == nil {
			metrics.IncDelivery(sink.Name(), "ok")
			return
		}

		d.log.Warn().Err(err).
			Str("sink", sink.Name()).
			Str("event_id", ev.ID).
			Int("attempt", attempt).
			Msg("Notify delivery failed")

		if attempt < attempts {
			time.Sleep(d.opts.Retry.NextDelay(attempt))
		}
	}

	metrics.IncDelivery(sink.Name(), "failed")
	d.log.Error().
		Str("sink", sink.Name()).
		Str("event_id", ev.ID).
		Str("event_type", string(ev.Type)).
		Msg("Notify delivery abandoned")
}

// Close stops accepting events and waits for in-flight deliveries until
// ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ domain.EventPublisher = (*Dispatcher)(nil)
