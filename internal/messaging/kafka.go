// Package messaging publishes deal events to Kafka for downstream consumers
// such as the loan origination system.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/metrics"
	"github.com/dafibh/underwriter/underwriter-backend/internal/websocket"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	publishTimeout   = 5 * time.Second
	bridgeBufferSize = 256
)

// Reasons an event is dropped before reaching Kafka
var (
	ErrBridgeFull   = errors.New("kafka bridge queue full")
	ErrBridgeClosed = errors.New("kafka bridge closed")
)

// Message is one record to write
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// messageWriter is the part of *kafkago.Writer the producer uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer writes to Kafka with one lazily created writer per topic
type Producer struct {
	mu        sync.Mutex
	writers   map[string]messageWriter
	brokers   []string
	newWriter func(brokers []string, topic string) messageWriter
}

// NewProducer creates a producer for the given brokers
func NewProducer(brokers []string) *Producer {
	return &Producer{
		writers:   make(map[string]messageWriter),
		brokers:   brokers,
		newWriter: newKafkaWriter,
	}
}

func newKafkaWriter(brokers []string, topic string) messageWriter {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
}

// Publish writes messages to topic
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	w := p.writer(topic)

	records := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		record := kafkago.Message{Key: msg.Key, Value: msg.Value}
		for k, v := range msg.Headers {
			record.Headers = append(record.Headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
		records = append(records, record)
	}

	if err := w.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and closes every writer
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]messageWriter)
	return firstErr
}

func (p *Producer) writer(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(p.brokers, topic)
	p.writers[topic] = w
	return w
}

// EventBridge forwards websocket events to a Kafka topic. Records are keyed
// by workspace and written one at a time by a single goroutine, so events
// reach Kafka in the order they were published.
type EventBridge struct {
	producer *Producer
	topic    string
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	pending chan pendingEvent
	done    chan struct{}
}

type pendingEvent struct {
	workspaceID int32
	eventType   string
	msg         Message
}

var _ websocket.EventPublisher = (*EventBridge)(nil)

// NewEventBridge creates an EventBridge and starts its writer
func NewEventBridge(producer *Producer, topic string, m *metrics.Metrics, logger zerolog.Logger) *EventBridge {
	b := &EventBridge{
		producer: producer,
		topic:    topic,
		metrics:  m,
		logger:   logger.With().Str("component", "kafka_bridge").Logger(),
		pending:  make(chan pendingEvent, bridgeBufferSize),
		done:     make(chan struct{}),
	}
	go b.run()
	return b
}

// Publish implements websocket.EventPublisher. The event is queued for the
// writer; when the queue is full or the bridge is closed it is dropped,
// logged and counted, never returned to the caller.
func (b *EventBridge) Publish(workspaceID int32, event websocket.Event) {
	event.WorkspaceID = workspaceID
	payload, err := event.ToJSON()
	if err != nil {
		b.logger.Error().Err(err).Str("event_type", event.Type).Msg("Failed to serialize event")
		b.metrics.EventPublished("kafka", err)
		return
	}

	pe := pendingEvent{
		workspaceID: workspaceID,
		eventType:   event.Type,
		msg: Message{
			Key:   []byte(strconv.FormatInt(int64(workspaceID), 10)),
			Value: payload,
			Headers: map[string]string{
				"event_type": event.Type,
				"entity":     string(event.Entity),
			},
		},
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.drop(pe, ErrBridgeClosed)
		return
	}
	select {
	case b.pending <- pe:
	default:
		b.drop(pe, ErrBridgeFull)
	}
}

func (b *EventBridge) drop(pe pendingEvent, reason error) {
	b.metrics.EventPublished("kafka", reason)
	b.logger.Warn().
		Err(reason).
		Int32("workspace_id", pe.workspaceID).
		Str("event_type", pe.eventType).
		Msg("Dropped deal event")
}

func (b *EventBridge) run() {
	defer close(b.done)
	for pe := range b.pending {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := b.producer.Publish(ctx, b.topic, pe.msg)
		cancel()

		b.metrics.EventPublished("kafka", err)
		if err != nil {
			b.logger.Warn().
				Err(err).
				Int32("workspace_id", pe.workspaceID).
				Str("event_type", pe.eventType).
				Msg("Failed to publish deal event")
		}
	}
}

// Close drains queued events and closes the producer
func (b *EventBridge) Close() error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.pending)
	}
	b.mu.Unlock()

	<-b.done
	return b.producer.Close()
}
