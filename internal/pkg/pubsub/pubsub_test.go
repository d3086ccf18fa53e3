package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsEvent_JSON(t *testing.T) {
	event := &PointsEvent{
		Type:    "points_changed",
		UserID:  1,
		Delta:   -5,
		Balance: 12,
		Reason:  "upvote_bonus_revoked",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "user_id")
	assert.Contains(t, raw, "balance")
	_, hasRef := raw["reference"]
	assert.False(t, hasRef, "empty reference should be omitted")
}

func TestPublisherSubscriber(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *PointsEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(event *PointsEvent) {
			received <- event
		})
	}()

	// 等待订阅建立
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(ChannelPointsEvents)[ChannelPointsEvents] > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, publisher.PublishPoints(ctx, &PointsEvent{
		UserID:    42,
		Delta:     5,
		Balance:   15,
		Reason:    "upvote_bonus",
		Reference: "answer:3",
	}))

	select {
	case event := <-received:
		assert.Equal(t, int64(42), event.UserID)
		assert.Equal(t, int64(5), event.Delta)
		assert.Equal(t, "points_changed", event.Type)
		assert.Equal(t, "answer:3", event.Reference)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for event")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Subscriber did not stop")
	}
}
