package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"MomCare/internal/model"
	"MomCare/internal/schedule"
	"MomCare/utils"
)

// ReminderStore schedule.Store 的 gorm 实现
type ReminderStore struct {
	db *gorm.DB
}

func NewReminderStore(db *gorm.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

var _ schedule.Store = (*ReminderStore)(nil)

func (s *ReminderStore) ListActiveEpisodesWithoutFutureReminder(ctx context.Context, today time.Time) ([]schedule.Episode, error) {
	todayStr := utils.FormatDate(today)

	// 严格晚于今天才算"未来提醒"；到期当天的提醒投递后即可接续生成下一条
	sub := s.db.Model(&model.Reminder{}).
		Select("pregnancy_id").
		Where("type = ?", model.ReminderTypeANCVisit).
		Where("due_date > ?", todayStr)

	var rows []struct {
		ID          int64
		LMPDate     string `gorm:"column:lmp_date"`
		CurrentWeek int
		NotifyVia   string
	}

	err := s.db.WithContext(ctx).
		Model(&model.Pregnancy{}).
		Select("id, lmp_date, current_week, notify_via").
		Where("is_active = ?", true).
		Where("current_week < ?", schedule.FinalWeek).
		Where("lmp_date IS NOT NULL AND lmp_date <> ''").
		Where("id NOT IN (?)", sub).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	episodes := make([]schedule.Episode, 0, len(rows))
	for _, row := range rows {
		episodes = append(episodes, schedule.Episode{
			PregnancyID: row.ID,
			// date 列扫描回字符串可能带时间部分，统一成 YYYY-MM-DD
			LMPDate:     utils.NormalizeDate(row.LMPDate),
			CurrentWeek: row.CurrentWeek,
			NotifyVia:   model.NotifyChannel(row.NotifyVia),
		})
	}

	return episodes, nil
}

func (s *ReminderStore) InsertReminder(ctx context.Context, reminder *model.Reminder) error {
	return s.db.WithContext(ctx).Create(reminder).Error
}

func (s *ReminderStore) ListDueUnsentReminders(ctx context.Context, today time.Time) ([]schedule.DueReminder, error) {
	todayStr := utils.FormatDate(today)

	var rows []struct {
		model.Reminder
		FullName string
		Email    string
		Phone    string
	}

	err := s.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Select("reminders.*, users.full_name, users.email, users.phone").
		Joins("JOIN pregnancies ON pregnancies.id = reminders.pregnancy_id AND pregnancies.deleted_at IS NULL").
		Joins("JOIN users ON users.id = pregnancies.user_id AND users.deleted_at IS NULL").
		Where("reminders.is_sent = ?", false).
		Where("reminders.due_date <= ?", todayStr).
		Where("pregnancies.is_active = ?", true).
		Where("users.is_active = ?", true).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	due := make([]schedule.DueReminder, 0, len(rows))
	for _, row := range rows {
		row.Reminder.DueDate = utils.NormalizeDate(row.Reminder.DueDate)
		due = append(due, schedule.DueReminder{
			Reminder: row.Reminder,
			Recipient: schedule.Recipient{
				FullName: row.FullName,
				Email:    row.Email,
				Phone:    row.Phone,
			},
		})
	}

	return due, nil
}

func (s *ReminderStore) MarkReminderSent(ctx context.Context, reminderID int64, sentAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ?", reminderID).
		Updates(map[string]interface{}{
			"is_sent": true,
			"sent_at": sentAt,
		}).Error
}
