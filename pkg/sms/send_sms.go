package sms

import (
	"context"
	"encoding/json"
	"fmt"

	"MomCare/config"
)

// TextSender 把自由文本短信映射为模板短信发送。
// 阿里云短信只接受模板 + 参数，正文通过模板参数 content 注入。
type TextSender struct {
	SignName     string
	TemplateCode string
}

// NewTextSender 使用配置中的签名和模板创建发送器
func NewTextSender() *TextSender {
	return &TextSender{
		SignName:     config.Cfg.SMSSignName,
		TemplateCode: config.Cfg.SMSTemplateCode,
	}
}

// SendSMS 发送一条文本短信
func (s *TextSender) SendSMS(ctx context.Context, phone, text string) error {
	param, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return fmt.Errorf("failed to marshal template param: %w", err)
	}

	return SendSingle(ctx, phone, s.SignName, s.TemplateCode, string(param))
}
