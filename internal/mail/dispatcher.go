package mail

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Stats counts dispatcher outcomes since start.
type Stats struct {
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
}

// Queue accepts messages for best-effort delivery.
type Queue interface {
	Enqueue(msg Message) bool
}

// Dispatcher delivers queued messages with a fixed number of workers.
// Enqueue never blocks; when the queue is full the message is dropped and counted.
type Dispatcher struct {
	sender  Sender
	queue   chan Message
	workers int
	timeout time.Duration
	logger  *log.Logger

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
	group  *errgroup.Group
}

// NewDispatcher creates a dispatcher. Call Start before enqueueing.
func NewDispatcher(sender Sender, workers, queueSize int, timeout time.Duration, logger *log.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan Message, queueSize),
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

// Start launches the workers. They run until Close drains the queue.
func (d *Dispatcher) Start() {
	g := new(errgroup.Group)
	g.SetLimit(d.workers)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for msg := range d.queue {
				d.deliver(msg)
			}
			return nil
		})
	}
	d.group = g
}

// Enqueue implements Queue.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.dropped.Add(1)
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		d.dropped.Add(1)
		d.logger.Printf("mail queue full, dropped to=%s subject=%q", msg.To, msg.Subject)
		return false
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		d.failed.Add(1)
		d.logger.Printf("mail delivery failed to=%s subject=%q: %v", msg.To, msg.Subject, err)
		return
	}
	d.sent.Add(1)
}

// Close stops accepting messages and waits for queued ones to be delivered
// or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	if d.group == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- d.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Sent:    d.sent.Load(),
		Failed:  d.failed.Load(),
		Dropped: d.dropped.Load(),
	}
}
