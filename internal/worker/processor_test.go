package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/codequest_server/internal/pkg/queue"
)

type sent struct {
	kind, to, subject, body string
}

type fakeEmail struct {
	sent []sent
	err  error
}

func (f *fakeEmail) SendOTP(to, code string) error {
	f.sent = append(f.sent, sent{kind: "otp", to: to, body: code})
	return f.err
}

func (f *fakeEmail) SendHTML(to, subject, body string) error {
	f.sent = append(f.sent, sent{kind: "html", to: to, subject: subject, body: body})
	return f.err
}

type fakeSMS struct {
	sent []sent
	err  error
}

func (f *fakeSMS) Send(to, body string) (string, error) {
	f.sent = append(f.sent, sent{kind: "text", to: to, body: body})
	return "SM123", f.err
}

func (f *fakeSMS) SendOTP(to, code string) error {
	f.sent = append(f.sent, sent{kind: "otp", to: to, body: code})
	return f.err
}

func setupQueue(t *testing.T) *queue.Queue {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return queue.NewQueue(rdb, "notifications")
}

func TestProcessor_Process_Routing(t *testing.T) {
	tests := []struct {
		name      string
		msg       *queue.Notification
		wantEmail string
		wantSMS   string
	}{
		{"email otp", &queue.Notification{Kind: queue.KindOTP, Channel: queue.ChannelEmail, To: "a@example.com", Body: "123456"}, "otp", ""},
		{"email invoice", &queue.Notification{Kind: queue.KindInvoice, Channel: queue.ChannelEmail, To: "a@example.com", Subject: "订阅成功", Body: "<p/>"}, "html", ""},
		{"sms otp", &queue.Notification{Kind: queue.KindOTP, Channel: queue.ChannelSMS, To: "+15550000", Body: "123456"}, "", "otp"},
		{"sms text", &queue.Notification{Kind: queue.KindInvoice, Channel: queue.ChannelSMS, To: "+15550000", Body: "paid"}, "", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, sms := &fakeEmail{}, &fakeSMS{}
			p := NewProcessor(email, sms, nil)

			require.NoError(t, p.Process(context.Background(), tt.msg))

			if tt.wantEmail != "" {
				require.Len(t, email.sent, 1)
				assert.Equal(t, tt.wantEmail, email.sent[0].kind)
				assert.Equal(t, tt.msg.To, email.sent[0].to)
			} else {
				assert.Empty(t, email.sent)
			}
			if tt.wantSMS != "" {
				require.Len(t, sms.sent, 1)
				assert.Equal(t, tt.wantSMS, sms.sent[0].kind)
			} else {
				assert.Empty(t, sms.sent)
			}
		})
	}
}

func TestProcessor_Process_UnknownChannel(t *testing.T) {
	q := setupQueue(t)
	p := NewProcessor(&fakeEmail{}, &fakeSMS{}, q)

	err := p.Process(context.Background(), &queue.Notification{Channel: "pigeon", To: "x"})
	assert.ErrorIs(t, err, ErrUnknownChannel)

	n, err := q.Length(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessor_Process_RetryThenGiveUp(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()
	sendErr := errors.New("smtp down")
	p := NewProcessor(&fakeEmail{err: sendErr}, &fakeSMS{}, q)

	msg := &queue.Notification{Kind: queue.KindOTP, Channel: queue.ChannelEmail, To: "a@example.com", Body: "1"}
	for attempt := 1; attempt < maxAttempts; attempt++ {
		require.NoError(t, p.Process(ctx, msg))

		requeued, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, requeued)
		assert.Equal(t, attempt, requeued.Attempt)
		msg = requeued
	}

	err := p.Process(ctx, msg)
	assert.ErrorIs(t, err, sendErr)

	n, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
