package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/dafibh/underwriter/underwriter-backend/internal/websocket"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	topic    string
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func newFakeProducer(err error) (*Producer, map[string]*fakeWriter) {
	created := make(map[string]*fakeWriter)
	p := NewProducer([]string{"localhost:9092"})
	p.newWriter = func(brokers []string, topic string) messageWriter {
		w := &fakeWriter{topic: topic, err: err}
		created[topic] = w
		return w
	}
	return p, created
}

func TestProducer_PublishReusesWriterPerTopic(t *testing.T) {
	p, writers := newFakeProducer(nil)

	require.NoError(t, p.Publish(context.Background(), "deals", Message{Key: []byte("1"), Value: []byte("a")}))
	require.NoError(t, p.Publish(context.Background(), "deals", Message{
		Key:     []byte("1"),
		Value:   []byte("b"),
		Headers: map[string]string{"event_type": "deal.created"},
	}))
	require.NoError(t, p.Publish(context.Background(), "audit", Message{Value: []byte("c")}))

	require.Len(t, writers, 2)
	require.Len(t, writers["deals"].messages, 2)
	second := writers["deals"].messages[1]
	assert.Equal(t, "b", string(second.Value))
	require.Len(t, second.Headers, 1)
	assert.Equal(t, "event_type", second.Headers[0].Key)

	require.NoError(t, p.Close())
	assert.True(t, writers["deals"].closed)
	assert.True(t, writers["audit"].closed)
}

func TestProducer_PublishWrapsError(t *testing.T) {
	p, _ := newFakeProducer(errors.New("leader not available"))
	err := p.Publish(context.Background(), "deals", Message{Value: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka publish to deals")
}

func TestEventBridge_PublishKeysByWorkspace(t *testing.T) {
	p, writers := newFakeProducer(nil)
	bridge := NewEventBridge(p, "deal-events", nil, zerolog.Nop())

	bridge.Publish(42, websocket.DealAnalyzed(map[string]string{"dscrRatio": "1.13"}))
	require.NoError(t, bridge.Close())

	w := writers["deal-events"]
	require.NotNil(t, w)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "42", string(w.messages[0].Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, "deal.analyzed", decoded["type"])
	assert.Equal(t, float64(42), decoded["workspaceId"])
}

func TestEventBridge_FailureDoesNotPanic(t *testing.T) {
	p, _ := newFakeProducer(errors.New("broker down"))
	bridge := NewEventBridge(p, "deal-events", nil, zerolog.Nop())

	assert.NotPanics(t, func() {
		bridge.Publish(1, websocket.DealDeleted(map[string]int{"id": 3}))
	})
	assert.NoError(t, bridge.Close())
}

func TestEventBridge_PreservesPublishOrder(t *testing.T) {
	p, writers := newFakeProducer(nil)
	bridge := NewEventBridge(p, "deal-events", nil, zerolog.Nop())

	const n = 100
	for i := 0; i < n; i++ {
		bridge.Publish(7, websocket.DealUpdated(map[string]int{"seq": i}))
	}
	require.NoError(t, bridge.Close())

	w := writers["deal-events"]
	require.NotNil(t, w)
	require.Len(t, w.messages, n)
	for i, msg := range w.messages {
		var decoded struct {
			Payload struct {
				Seq int `json:"seq"`
			} `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, i, decoded.Payload.Seq, "message %d out of order", i)
		assert.Equal(t, strconv.Itoa(7), string(msg.Key))
	}
}

func TestEventBridge_PublishAfterCloseIsDropped(t *testing.T) {
	p, writers := newFakeProducer(nil)
	bridge := NewEventBridge(p, "deal-events", nil, zerolog.Nop())
	require.NoError(t, bridge.Close())

	assert.NotPanics(t, func() {
		bridge.Publish(1, websocket.DealDeleted(map[string]int{"id": 3}))
	})
	assert.Empty(t, writers)
	assert.NoError(t, bridge.Close())
}
