package events

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EntityCompany, ActionCreated, "7", nil)
	assert.Equal(t, "COMPANY_CREATED", e.EventType)
	assert.Equal(t, "company", e.Entity)
	assert.Equal(t, "7", e.EntityID)
	assert.False(t, e.Timestamp.IsZero())
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "t"}

	err := p.Publish(context.Background(), NewEvent(EntityStock, ActionBatchCreated, "3", map[string]int{"rows": 2}))
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "stock:3", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "STOCK_BATCH_CREATED", got["event_type"])
	assert.Equal(t, float64(2), got["payload"].(map[string]any)["rows"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.Publish(context.Background(), NewEvent(EntityMacro, ActionUpdated, "1", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestProducer_MarshalError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{}}
	err := p.Publish(context.Background(), NewEvent(EntityMacro, ActionUpdated, "1", make(chan int)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal")
}

func TestNew_SelectsImplementation(t *testing.T) {
	assert.IsType(t, NopPublisher{}, New(nil, "t"))
	p := New([]string{"localhost:9092"}, "t")
	assert.IsType(t, &Producer{}, p)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}

func TestProducer_PublishDoesNotWaitForBroker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	p := NewProducer([]string{ln.Addr().String()}, "etmarket.events")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err = p.Publish(ctx, NewEvent(EntityCompany, ActionCreated, "1", nil))
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewProducer_IsAsync(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "t")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, w.Async)
	assert.NotNil(t, w.Completion)

	reportDelivery([]kafka.Message{{Topic: "t", Key: []byte("company:1")}}, errors.New("broker down"))
	reportDelivery(nil, nil)
}
