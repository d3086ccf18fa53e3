package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPointsEvents = "points_events"

	EventPointsChanged = "points_changed"
)

// PointsEvent 积分变动事件
type PointsEvent struct {
	Type      string `json:"type"`
	UserID    int64  `json:"user_id"`
	Delta     int64  `json:"delta"`
	Balance   int64  `json:"balance"`
	Reason    string `json:"reason"`
	Reference string `json:"reference,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishPoints 发布积分变动
func (p *Publisher) PublishPoints(ctx context.Context, event *PointsEvent) error {
	event.Type = "points_changed"

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal points event: %w", err)
	}

	return p.client.Publish(ctx, ChannelPointsEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅积分变动，ctx 取消时返回
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*PointsEvent)) error {
	sub := s.client.Subscribe(ctx, ChannelPointsEvents)
	defer sub.Close()

	// 等待订阅确认，避免漏掉紧随其后的消息
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event PointsEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
