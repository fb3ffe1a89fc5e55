package mailer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"MomCare/config"
	"MomCare/pkg/logger"
)

// Client 邮件客户端接口
type Client interface {
	// SendMail 发送一封纯文本邮件
	SendMail(ctx context.Context, to, subject, body string) error
}

var (
	mailClient Client
	mailOnce   sync.Once
	mailErr    error
)

// Init 初始化邮件客户端
func Init() error {
	mailOnce.Do(func() {
		cfg := config.Cfg

		if cfg.SMTPHost == "" {
			mailErr = fmt.Errorf("SMTP_HOST is not configured")
			logger.Logger.Error("Failed to initialize mail client", zap.Error(mailErr))
			return
		}

		mailClient, mailErr = NewSMTPClient()
		if mailErr != nil {
			logger.Logger.Error("Failed to initialize mail client", zap.Error(mailErr))
			return
		}

		logger.Logger.Info("Mail client initialized successfully",
			zap.String("host", cfg.SMTPHost),
		)
	})

	return mailErr
}

func GetClient() Client {
	if mailClient == nil {
		panic("mail client not initialized, call mailer.Init() first")
	}
	return mailClient
}

func SendMail(ctx context.Context, to, subject, body string) error {
	return GetClient().SendMail(ctx, to, subject, body)
}
