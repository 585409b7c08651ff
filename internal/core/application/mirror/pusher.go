package mirror

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gasdelivery/internal/core/domain/model/order"
)

const (
	defaultQueueSize   = 256
	defaultPushTimeout = 15 * time.Second
)

// orderPusher is what AsyncPusher drains into; *Service implements it.
type orderPusher interface {
	PushOrder(ctx context.Context, ord *order.Order) error
}

// AsyncPusher decouples ledger writes from sheet I/O. Push never blocks: when the queue is full
// the update is dropped and the next heartbeat rebuild restores it.
type AsyncPusher struct {
	target  orderPusher
	queue   chan *order.Order
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewAsyncPusher(target orderPusher, queueSize int, logger *slog.Logger) *AsyncPusher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncPusher{
		target:  target,
		queue:   make(chan *order.Order, queueSize),
		timeout: defaultPushTimeout,
		logger:  logger.With("component", "mirror-pusher"),
	}
}

func (p *AsyncPusher) Push(ord *order.Order) {
	if ord == nil {
		return
	}
	select {
	case p.queue <- ord:
	default:
		p.logger.Warn("mirror queue full, dropping push", "orderId", ord.ID().String())
	}
}

// Start drains the queue until ctx is cancelled, then finishes what is already queued.
func (p *AsyncPusher) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case ord := <-p.queue:
				p.push(ord)
			case <-ctx.Done():
				p.drain()
				return
			}
		}
	}()
}

// Wait blocks until the worker started by Start has exited.
func (p *AsyncPusher) Wait() {
	p.wg.Wait()
}

func (p *AsyncPusher) drain() {
	for {
		select {
		case ord := <-p.queue:
			p.push(ord)
		default:
			return
		}
	}
}

func (p *AsyncPusher) push(ord *order.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.target.PushOrder(ctx, ord); err != nil {
		p.logger.ErrorContext(ctx, "push order ledger", "orderId", ord.ID().String(), "error", err)
	}
}
