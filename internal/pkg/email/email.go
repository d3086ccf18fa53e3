package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/qs3c/codequest_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendOTP 发送一次性验证码
func (s *Service) SendOTP(to, code string) error {
	subject := "验证码 - CodeQuest"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">登录验证</h2>
        <p>您的验证码为：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
            %s
        </div>
        <p>如果您没有进行此操作，请忽略此邮件。</p>
    </div>
</body>
</html>
`, code)

	return s.SendHTML(to, subject, body)
}

// InvoiceBody 渲染套餐购买发票
func InvoiceBody(username, plan string, amount float64, paidAt string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">订阅成功</h2>
        <p>您好，%s！</p>
        <table style="border-collapse: collapse; width: 100%%;">
            <tr><td>套餐</td><td>%s</td></tr>
            <tr><td>金额</td><td>%.2f</td></tr>
            <tr><td>支付时间</td><td>%s</td></tr>
        </table>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, username, plan, amount, paidAt)
}

// SendHTML 发送 HTML 邮件
func (s *Service) SendHTML(to, subject, body string) error {
	var msg strings.Builder
	for _, h := range [][2]string{
		{"From", s.cfg.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	} {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
