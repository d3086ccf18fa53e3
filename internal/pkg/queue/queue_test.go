package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestQueue_PushPop_FIFO(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_notifications")
	ctx := context.Background()

	first := &Notification{Kind: KindOTP, Channel: ChannelEmail, To: "a@example.com", Body: "123456"}
	second := &Notification{Kind: KindInvoice, Channel: ChannelEmail, UserID: 7, To: "b@example.com", Subject: "Invoice", Body: "gold"}

	require.NoError(t, q.Push(ctx, first))
	require.NoError(t, q.Push(ctx, second))

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *first, *got)

	got, err = q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, KindInvoice, got.Kind)
}

func TestQueue_Pop_Empty(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "empty_queue")

	msg, err := q.Pop(context.Background(), 100*time.Millisecond)
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestQueue_Pop_InvalidPayload(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "bad_queue")
	_, err := mr.Lpush("bad_queue", "not-json")
	require.NoError(t, err)

	msg, err := q.Pop(context.Background(), time.Second)
	assert.Error(t, err)
	assert.Nil(t, msg)
}

func TestQueue_Isolation(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	a := NewQueue(client, "queue_a")
	b := NewQueue(client, "queue_b")

	require.NoError(t, a.Push(ctx, &Notification{Kind: KindOTP, To: "x"}))

	lenA, err := a.Length(ctx)
	require.NoError(t, err)
	lenB, err := b.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), lenA)
	assert.Equal(t, int64(0), lenB)
}
