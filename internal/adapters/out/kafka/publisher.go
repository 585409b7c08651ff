// Package kafka publishes order notifications to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gasdelivery/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// ErrBufferFull is returned when the outgoing buffer cannot take more events.
var ErrBufferFull = errors.New("event buffer is full")

const (
	defaultBuffer       = 1024
	defaultWriteTimeout = 10 * time.Second
)

type Config struct {
	Brokers  []string
	Topic    string
	Producer string
	Buffer   int
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher buffers events and writes them from one goroutine. Messages are keyed by order id and
// hashed to partitions, so events of one order stay ordered.
type Publisher struct {
	writer   messageWriter
	producer string
	inbox    chan kafka.Message
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewPublisher(cfg Config, logger *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: defaultWriteTimeout,
	}
	return newPublisher(w, cfg.Producer, cfg.Buffer, logger)
}

func newPublisher(w messageWriter, producer string, buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		writer:   w,
		producer: producer,
		inbox:    make(chan kafka.Message, buffer),
		logger:   logger.With("component", "kafka-publisher"),
	}
}

// Publish enqueues events without waiting for the broker.
func (p *Publisher) Publish(_ context.Context, events ...ports.Event) error {
	for _, e := range events {
		env, err := newEnvelope(p.producer, e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Type, err)
		}
		value, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Type, err)
		}

		msg := kafka.Message{
			Key:   []byte(e.Key),
			Value: value,
			Time:  env.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.Type)},
			},
		}
		select {
		case p.inbox <- msg:
		default:
			return fmt.Errorf("%w: dropped %s for %s", ErrBufferFull, e.Type, e.Key)
		}
	}
	return nil
}

// Start runs the writer loop. When ctx is cancelled the buffered messages are flushed and the
// writer is closed.
func (p *Publisher) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case msg := <-p.inbox:
				p.write(msg)
			case <-ctx.Done():
				p.flush()
				if err := p.writer.Close(); err != nil {
					p.logger.Warn("close kafka writer", "error", err)
				}
				return
			}
		}
	}()
}

// Wait blocks until the writer loop has flushed and exited.
func (p *Publisher) Wait() {
	p.wg.Wait()
}

func (p *Publisher) flush() {
	for {
		select {
		case msg := <-p.inbox:
			p.write(msg)
		default:
			return
		}
	}
}

func (p *Publisher) write(msg kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, "write event", "key", string(msg.Key), "error", err)
	}
}

// LogPublisher logs events instead of sending them. It is used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return LogPublisher{logger: logger.With("component", "event-log")}
}

func (p LogPublisher) Publish(ctx context.Context, events ...ports.Event) error {
	for _, e := range events {
		p.logger.InfoContext(ctx, "event", "type", e.Type, "key", e.Key, "id", e.ID, "data", e.Data)
	}
	return nil
}
