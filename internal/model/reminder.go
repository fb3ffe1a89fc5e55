package model

import (
	"time"

	"gorm.io/gorm"

	"MomCare/utils"
)

// ReminderType 提醒类型
type ReminderType string

const (
	ReminderTypeANCVisit ReminderType = "anc_visit"
)

// Reminder 产检提醒，由批处理生成，发送后标记 is_sent
type Reminder struct {
	BaseModel
	PublicID    string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"reminder_id"`
	PregnancyID int64         `gorm:"not null;index" json:"-"`
	Type        ReminderType  `gorm:"type:varchar(32);not null;default:'anc_visit'" json:"type"`
	Title       string        `gorm:"type:varchar(128);not null" json:"title"`
	Message     string        `gorm:"type:text;not null" json:"message"`
	DueDate     string        `gorm:"type:date;not null;index" json:"due_date"`
	SendVia     NotifyChannel `gorm:"type:varchar(16);not null;default:'email'" json:"send_via"`
	IsSent      bool          `gorm:"not null;default:false;index" json:"is_sent"`
	SentAt      *time.Time    `json:"sent_at"`

	Pregnancy Pregnancy `gorm:"foreignKey:PregnancyID" json:"-"`
}

func (Reminder) TableName() string {
	return "reminders"
}

// AfterFind date 列扫描回字符串可能带时间部分，统一成 YYYY-MM-DD
func (r *Reminder) AfterFind(*gorm.DB) error {
	r.DueDate = utils.NormalizeDate(r.DueDate)
	return nil
}
