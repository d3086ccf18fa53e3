package sms

import (
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/qs3c/codequest_server/config"
)

var ErrNotConfigured = errors.New("sms: twilio credentials not configured")

// messageCreator 抽象 Twilio Messages API，便于测试替换
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Service struct {
	api  messageCreator
	from string
}

func NewService(cfg *config.SMSConfig) *Service {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return &Service{from: cfg.From}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &Service{api: client.Api, from: cfg.From}
}

// Send 发送短信，返回消息 SID
func (s *Service) Send(to, body string) (string, error) {
	if s.api == nil {
		return "", ErrNotConfigured
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send sms: %w", err)
	}

	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// SendOTP 发送验证码短信
func (s *Service) SendOTP(to, code string) error {
	_, err := s.Send(to, fmt.Sprintf("Your CodeQuest verification code is %s", code))
	return err
}
