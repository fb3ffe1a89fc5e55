package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"MomCare/internal/model"
	"MomCare/pkg/logger"
	"MomCare/pkg/metrics"
)

// EmailSender 邮件发送能力
type EmailSender interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// SMSSender 短信发送能力
type SMSSender interface {
	SendSMS(ctx context.Context, phone, text string) error
}

// ChannelResult 单个渠道的投递结果
type ChannelResult struct {
	Channel string
	Err     error
}

// Outcome 一条提醒的投递结果。
// 任一渠道成功即视为发送成功。
type Outcome struct {
	ReminderID int64
	Skipped    bool
	Sent       bool
	Results    []ChannelResult
}

// Dispatcher 按接收人偏好的渠道投递提醒
type Dispatcher struct {
	store Store
	email EmailSender
	sms   SMSSender
}

func NewDispatcher(store Store, email EmailSender, sms SMSSender) *Dispatcher {
	return &Dispatcher{
		store: store,
		email: email,
		sms:   sms,
	}
}

// Dispatch 投递一条到期提醒并在成功后落库标记。
// 已发送的提醒直接跳过，不触达任何渠道。
func (d *Dispatcher) Dispatch(ctx context.Context, due DueReminder) Outcome {
	outcome := Outcome{ReminderID: due.Reminder.ID}

	if due.Reminder.IsSent {
		outcome.Skipped = true
		return outcome
	}

	if wantsEmail(due.Reminder.SendVia) {
		err := d.sendEmail(ctx, due)
		outcome.Results = append(outcome.Results, ChannelResult{Channel: "email", Err: err})
	}

	if wantsSMS(due.Reminder.SendVia) {
		err := d.sendSMS(ctx, due)
		outcome.Results = append(outcome.Results, ChannelResult{Channel: "sms", Err: err})
	}

	for _, r := range outcome.Results {
		if r.Err == nil {
			outcome.Sent = true
			break
		}
	}

	if outcome.Sent {
		if err := d.store.MarkReminderSent(ctx, due.Reminder.ID, time.Now().UTC()); err != nil {
			logger.Logger.Error("Failed to mark reminder as sent",
				zap.Int64("reminder_id", due.Reminder.ID),
				zap.Error(err),
			)
			outcome.Sent = false
			outcome.Results = append(outcome.Results, ChannelResult{Channel: "store", Err: err})
		}
	}

	return outcome
}

func (d *Dispatcher) sendEmail(ctx context.Context, due DueReminder) error {
	if d.email == nil {
		return fmt.Errorf("email sender not configured")
	}
	if due.Recipient.Email == "" {
		return fmt.Errorf("recipient has no email address")
	}

	err := d.email.SendMail(ctx, due.Recipient.Email, due.Reminder.Title, due.Reminder.Message)
	if err != nil {
		metrics.RecordReminderFailed("email")
		return err
	}

	metrics.RecordReminderSent("email")
	return nil
}

func (d *Dispatcher) sendSMS(ctx context.Context, due DueReminder) error {
	if d.sms == nil {
		return fmt.Errorf("sms sender not configured")
	}
	if due.Recipient.Phone == "" {
		return fmt.Errorf("recipient has no phone number")
	}

	text := fmt.Sprintf("Hello %s, this is a reminder: %s - Maternal Healthcare",
		due.Recipient.FullName, due.Reminder.Message)

	err := d.sms.SendSMS(ctx, due.Recipient.Phone, text)
	if err != nil {
		metrics.RecordReminderFailed("sms")
		return err
	}

	metrics.RecordReminderSent("sms")
	return nil
}

func wantsEmail(via model.NotifyChannel) bool {
	return via == model.NotifyViaEmail || via == model.NotifyViaBoth
}

func wantsSMS(via model.NotifyChannel) bool {
	return via == model.NotifyViaSMS || via == model.NotifyViaBoth
}
