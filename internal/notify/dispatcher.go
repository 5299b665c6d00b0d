package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Outcome labels for airban_notifications_total.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
	OutcomeInvalid = "render_failed"
)

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "airban_notifications_total",
		Help: "Post-commit notifications by event kind, recipient and outcome.",
	},
	[]string{"event", "recipient", "outcome"},
)

func init() {
	prometheus.MustRegister(notificationsTotal)
}

// ErrClosed is returned by Close when the dispatcher was already closed.
var ErrClosed = errors.New("notify: dispatcher closed")

// DispatcherOptions tunes a Dispatcher. Zero values fall back to defaults.
type DispatcherOptions struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
	Logger      zerolog.Logger
}

// Dispatcher renders and mails events on a fixed pool of workers.
//
// Notify never blocks: when the queue is full the event is dropped, logged
// and counted. Close stops intake and waits for queued events to drain.
type Dispatcher struct {
	mailer   Mailer
	composer *Composer
	timeout  time.Duration
	workers  int
	log      zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	queue   chan Event
	wg      sync.WaitGroup
	base    context.Context
}

// NewDispatcher builds a dispatcher. Call Start before Notify.
func NewDispatcher(m Mailer, c *Composer, opts DispatcherOptions) *Dispatcher {
	if opts.QueueSize < 1 {
		opts.QueueSize = 100
	}
	if opts.Workers < 1 {
		opts.Workers = 2
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		mailer:   m,
		composer: c,
		timeout:  opts.SendTimeout,
		workers:  opts.Workers,
		log:      opts.Logger,
		queue:    make(chan Event, opts.QueueSize),
		base:     context.Background(),
	}
}

// Start launches the workers. ctx values (not its cancellation) are
// inherited by sends; shutdown goes through Close.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	d.base = context.WithoutCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
}

// Notify enqueues ev without blocking.
func (d *Dispatcher) Notify(_ context.Context, ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ev, "dispatcher closed")
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.drop(ev, "queue full")
	}
}

// Close stops intake and waits for the workers to finish the queue, or for
// ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.queue)
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

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	lg := d.log.With().Str("event", string(ev.Kind)).Str("subject_id", ev.SubjectID()).Logger()

	envs, err := d.composer.Compose(ev)
	if err != nil {
		notificationsTotal.WithLabelValues(string(ev.Kind), "", OutcomeInvalid).Inc()
		lg.Error().Err(err).Msg("render notification")
		return
	}
	for _, env := range envs {
		ctx, cancel := context.WithTimeout(d.base, d.timeout)
		err := d.mailer.Send(ctx, env.Message)
		cancel()
		if err != nil {
			notificationsTotal.WithLabelValues(string(ev.Kind), env.Recipient, OutcomeFailed).Inc()
			lg.Error().Err(err).Str("recipient", env.Recipient).Msg("send notification")
			continue
		}
		notificationsTotal.WithLabelValues(string(ev.Kind), env.Recipient, OutcomeSent).Inc()
		lg.Debug().Str("recipient", env.Recipient).Msg("notification sent")
	}
}

func (d *Dispatcher) drop(ev Event, reason string) {
	notificationsTotal.WithLabelValues(string(ev.Kind), "", OutcomeDropped).Inc()
	d.log.Warn().
		Str("event", string(ev.Kind)).
		Str("subject_id", ev.SubjectID()).
		Str("reason", reason).
		Msg("notification dropped")
}
