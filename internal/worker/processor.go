package worker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/qs3c/codequest_server/internal/pkg/queue"
)

const maxAttempts = 3

var ErrUnknownChannel = errors.New("unknown notification channel")

// EmailSender 邮件发送
type EmailSender interface {
	SendOTP(to, code string) error
	SendHTML(to, subject, body string) error
}

// SMSSender 短信发送
type SMSSender interface {
	Send(to, body string) (string, error)
	SendOTP(to, code string) error
}

// Requeuer 投递失败的通知重新入队
type Requeuer interface {
	Push(ctx context.Context, msg *queue.Notification) error
}

// Processor 通知投递处理器
type Processor struct {
	email   EmailSender
	sms     SMSSender
	requeue Requeuer
}

// NewProcessor 创建通知处理器
func NewProcessor(email EmailSender, sms SMSSender, requeue Requeuer) *Processor {
	return &Processor{
		email:   email,
		sms:     sms,
		requeue: requeue,
	}
}

// Process 按渠道投递一条通知，失败时重新入队，超过次数后丢弃
func (p *Processor) Process(ctx context.Context, msg *queue.Notification) error {
	err := p.deliver(msg)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnknownChannel) {
		return err
	}

	msg.Attempt++
	if msg.Attempt >= maxAttempts || p.requeue == nil {
		return fmt.Errorf("giving up on %s notification to %s after %d attempts: %w", msg.Kind, msg.To, msg.Attempt, err)
	}

	if pushErr := p.requeue.Push(ctx, msg); pushErr != nil {
		return fmt.Errorf("failed to requeue notification: %w", pushErr)
	}
	log.Printf("Notification to %s failed (attempt %d), requeued: %v", msg.To, msg.Attempt, err)
	return nil
}

func (p *Processor) deliver(msg *queue.Notification) error {
	switch msg.Channel {
	case queue.ChannelEmail:
		if msg.Kind == queue.KindOTP {
			return p.email.SendOTP(msg.To, msg.Body)
		}
		return p.email.SendHTML(msg.To, msg.Subject, msg.Body)
	case queue.ChannelSMS:
		if msg.Kind == queue.KindOTP {
			return p.sms.SendOTP(msg.To, msg.Body)
		}
		_, err := p.sms.Send(msg.To, msg.Body)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownChannel, msg.Channel)
}
