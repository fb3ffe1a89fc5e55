package service

import (
	"context"
	"sync"

	"MomCare/internal/model"
	"MomCare/pkg/errors"
	"MomCare/storage/database"
)

type ReminderService struct{}

var (
	reminderService *ReminderService
	reminderOnce    sync.Once
)

func Reminder() *ReminderService {
	reminderOnce.Do(func() {
		reminderService = &ReminderService{}
	})

	return reminderService
}

// ListReminders 按角色列出可见的产检提醒，pendingOnly 为 true 时只返回未发送的
func (s *ReminderService) ListReminders(ctx context.Context, requester *model.User, pendingOnly bool) ([]model.Reminder, error) {
	query := database.DB().WithContext(ctx).
		Model(&model.Reminder{}).
		Joins("JOIN pregnancies ON pregnancies.id = reminders.pregnancy_id AND pregnancies.deleted_at IS NULL").
		Order("reminders.due_date DESC")

	switch requester.Role {
	case model.RolePregnantWoman:
		query = query.Where("pregnancies.user_id = ?", requester.ID)
	case model.RoleDoctorAsha:
		query = query.Where("pregnancies.assigned_doctor_id = ?", requester.ID)
	case model.RoleAdmin:
		// 管理员可见全部
	default:
		return nil, errors.RoleNotPermitted
	}

	if pendingOnly {
		query = query.Where("reminders.is_sent = ?", false)
	}

	var reminders []model.Reminder
	if err := query.Find(&reminders).Error; err != nil {
		return nil, err
	}

	return reminders, nil
}
