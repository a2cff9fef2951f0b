// Package mail 基于 SMTP 的邮件发送
package mail

import (
	"context"
	"fmt"

	"github.com/wyfcoding/shopsystem/pkg/config"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer 通过 SMTP 发送账户邮件
type SMTPMailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer 构造函数
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendVerificationCode 发送注册验证码
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	if !m.cfg.Enabled {
		// 未配置 SMTP 时只打日志，便于本地联调
		logger.Info(ctx, "Mail disabled, verification code logged only", "to", to, "code", code)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Confirm your email")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Your verification code is:</p><h2>%s</h2><p>It expires in 10 minutes.</p>", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	logger.Info(ctx, "Verification mail sent", "to", to)
	return nil
}
