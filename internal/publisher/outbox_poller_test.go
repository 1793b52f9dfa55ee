package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	r "github.com/valed-dm/ecombot/internal/repository"
)

type mockEventRepo struct {
	Events       []*r.OutboxEvent
	GetErr       error
	MarkErr      error
	ProcessedIDs []int64
}

func (m *mockEventRepo) GetUnprocessedEvents(_ context.Context, _ int) ([]*r.OutboxEvent, error) {
	return m.Events, m.GetErr
}

func (m *mockEventRepo) MarkEventAsProcessed(_ context.Context, id int64) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.ProcessedIDs = append(m.ProcessedIDs, id)
	return nil
}

type fakeWriter struct {
	Written []kafka.Message
	Err     error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.Err != nil {
		return f.Err
	}
	f.Written = append(f.Written, msgs...)
	return nil
}

func testEvents() []*r.OutboxEvent {
	return []*r.OutboxEvent{
		{ID: 1, AggregateID: "order-1", EventType: "order.placed", Payload: []byte(`{"order_id":"order-1"}`), CreatedAt: time.Now()},
		{ID: 2, AggregateID: "order-2", EventType: "order.placed", Payload: []byte(`{"order_id":"order-2"}`), CreatedAt: time.Now()},
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	repo := &mockEventRepo{Events: testEvents()}
	writer := &fakeWriter{}
	p := &OutboxPoller{tick: time.Second, batch: 100, repo: repo, writer: writer}

	p.processUnpublishedEvents(context.Background())

	require.Len(t, writer.Written, 2)
	assert.Equal(t, []byte("order-1"), writer.Written[0].Key)
	assert.Equal(t, []byte(`{"order_id":"order-1"}`), writer.Written[0].Value)
	require.Len(t, writer.Written[0].Headers, 1)
	assert.Equal(t, "event_type", writer.Written[0].Headers[0].Key)
	assert.Equal(t, []byte("order.placed"), writer.Written[0].Headers[0].Value)

	assert.Equal(t, []int64{1, 2}, repo.ProcessedIDs)
}

func TestProcessUnpublishedEvents_PublishFailureLeavesEventForRetry(t *testing.T) {
	repo := &mockEventRepo{Events: testEvents()}
	writer := &fakeWriter{Err: errors.New("broker down")}
	p := &OutboxPoller{tick: time.Second, batch: 100, repo: repo, writer: writer}

	p.processUnpublishedEvents(context.Background())

	assert.Empty(t, writer.Written)
	assert.Empty(t, repo.ProcessedIDs, "unpublished events must not be marked processed")
}

func TestProcessUnpublishedEvents_RepoErrorIsNonFatal(t *testing.T) {
	repo := &mockEventRepo{GetErr: errors.New("db down")}
	writer := &fakeWriter{}
	p := &OutboxPoller{tick: time.Second, batch: 100, repo: repo, writer: writer}

	p.processUnpublishedEvents(context.Background())

	assert.Empty(t, writer.Written)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &mockEventRepo{}
	writer := &fakeWriter{}
	p := &OutboxPoller{tick: time.Millisecond, batch: 100, repo: repo, writer: writer}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
