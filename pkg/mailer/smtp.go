package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"MomCare/config"
	"MomCare/pkg/logger"
	"MomCare/pkg/metrics"
)

type SMTPClient struct {
	client *mail.Client
	from   string
}

// NewSMTPClient 创建 SMTP 邮件客户端
func NewSMTPClient() (*SMTPClient, error) {
	cfg := config.Cfg

	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPClient{
		client: client,
		from:   cfg.SMTPFrom,
	}, nil
}

// SendMail 发送一封纯文本邮件
func (c *SMTPClient) SendMail(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if err := msg.From(c.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		logger.Logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		metrics.RecordEmailFailed()
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Logger.Info("Email sent successfully",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	metrics.RecordEmailSent()

	return nil
}
