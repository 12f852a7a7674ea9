package events

import (
	"context"
	"testing"
	"time"

	"circulation/pkg/kafka"
	"circulation/pkg/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	batches [][]kafka.Message
	closed  bool
}

func (p *recordingProducer) PublishBatch(_ context.Context, messages []kafka.Message) error {
	p.batches = append(p.batches, messages)
	return nil
}

func (p *recordingProducer) Close() error {
	p.closed = true
	return nil
}

func TestKafkaPublisherKeysByAsset(t *testing.T) {
	rec := &recordingProducer{}
	pub := &KafkaPublisher{producer: rec, source: "circulation"}

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")

	err := pub.Publish(ctx,
		New(AssetCheckedIn, "a1", at).WithCard("c1"),
		New(HoldFulfilled, "a1", at).WithCard("c2").WithHold("h1"),
		New(AssetCheckedOut, "a1", at).WithCard("c2"),
	)
	require.NoError(t, err)

	require.Len(t, rec.batches, 1)
	batch := rec.batches[0]
	require.Len(t, batch, 3)

	wantTypes := []Type{AssetCheckedIn, HoldFulfilled, AssetCheckedOut}
	for i, msg := range batch {
		assert.Equal(t, "a1", msg.Key)
		assert.Equal(t, string(wantTypes[i]), msg.GetEventType())
		assert.Equal(t, "req-1", msg.GetCorrelationID())
		assert.Equal(t, at, msg.Timestamp)

		var decoded Event
		require.NoError(t, msg.DecodeValue(&decoded))
		assert.Equal(t, msg.GetEventID(), decoded.ID)
	}
}

func TestKafkaPublisherEmpty(t *testing.T) {
	rec := &recordingProducer{}
	pub := &KafkaPublisher{producer: rec}

	require.NoError(t, pub.Publish(context.Background()))
	assert.Empty(t, rec.batches)

	require.NoError(t, pub.Close())
	assert.True(t, rec.closed)
}

func TestNewEventHasID(t *testing.T) {
	a := New(HoldPlaced, "a1", time.Now())
	b := New(HoldPlaced, "a1", time.Now())
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
