package schedule

import (
	"context"
	"time"

	"MomCare/internal/model"
)

// Episode 一条待生成提醒的孕期档案
type Episode struct {
	PregnancyID int64
	LMPDate     string
	CurrentWeek int
	NotifyVia   model.NotifyChannel
}

// Recipient 提醒接收人的联系方式
type Recipient struct {
	FullName string
	Email    string
	Phone    string
}

// DueReminder 一条到期待发送的提醒及其接收人
type DueReminder struct {
	Reminder  model.Reminder
	Recipient Recipient
}

// Store 批处理引擎依赖的持久层操作
type Store interface {
	// ListActiveEpisodesWithoutFutureReminder 返回所有活跃、未满 40 周
	// 且当前没有未来提醒的孕期档案
	ListActiveEpisodesWithoutFutureReminder(ctx context.Context, today time.Time) ([]Episode, error)

	// InsertReminder 写入一条新生成的提醒
	InsertReminder(ctx context.Context, reminder *model.Reminder) error

	// ListDueUnsentReminders 返回所有 due_date <= today 且未发送的提醒
	ListDueUnsentReminders(ctx context.Context, today time.Time) ([]DueReminder, error)

	// MarkReminderSent 将提醒标记为已发送
	MarkReminderSent(ctx context.Context, reminderID int64, sentAt time.Time) error
}
