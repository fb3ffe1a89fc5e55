package model

import (
	"gorm.io/gorm"

	"MomCare/utils"
)

// NotifyChannel 提醒通知渠道偏好
type NotifyChannel string

const (
	NotifyViaEmail NotifyChannel = "email"
	NotifyViaSMS   NotifyChannel = "sms"
	NotifyViaBoth  NotifyChannel = "both"
)

// Pregnancy 孕期档案，注册时随用户一起创建
type Pregnancy struct {
	BaseModel
	PublicID         string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"pregnancy_id"`
	UserID           int64         `gorm:"not null;index" json:"-"`
	AssignedDoctorID *int64        `gorm:"index" json:"-"`
	Age              int           `gorm:"not null;default:0" json:"age"`
	LMPDate          string        `gorm:"type:date" json:"lmp_date"`
	CurrentWeek      int           `gorm:"not null;default:0" json:"current_week"`
	Address          string        `gorm:"type:varchar(255)" json:"address"`
	EmergencyContact string        `gorm:"type:varchar(128)" json:"emergency_contact"`
	EmergencyPhone   string        `gorm:"type:varchar(32)" json:"emergency_phone"`
	NotifyVia        NotifyChannel `gorm:"type:varchar(16);not null;default:'email'" json:"notify_via"`
	IsActive         bool          `gorm:"not null;default:true;index" json:"is_active"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Pregnancy) TableName() string {
	return "pregnancies"
}

// AfterFind 同 Reminder，归一化 date 列的回读格式
func (p *Pregnancy) AfterFind(*gorm.DB) error {
	p.LMPDate = utils.NormalizeDate(p.LMPDate)
	return nil
}
