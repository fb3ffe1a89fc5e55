package model

import "time"

// AlertType 风险告警类型
type AlertType string

const (
	AlertTypeHighBP      AlertType = "high_blood_pressure"
	AlertTypeLowHB       AlertType = "low_hemoglobin"
	AlertTypeAbnormalFHR AlertType = "abnormal_fetal_heart_rate"
	AlertTypeProteinuria AlertType = "proteinuria"
	AlertTypeHighSugar   AlertType = "high_blood_sugar"
)

// AlertSeverity 告警级别
type AlertSeverity string

const (
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// RiskAlert 由产检记录自动评估产生的风险告警
type RiskAlert struct {
	BaseModel
	PublicID    string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"alert_id"`
	PregnancyID int64         `gorm:"not null;index" json:"-"`
	VisitID     int64         `gorm:"not null;index" json:"-"`
	Type        AlertType     `gorm:"type:varchar(48);not null" json:"type"`
	Severity    AlertSeverity `gorm:"type:varchar(16);not null;index" json:"severity"`
	Message     string        `gorm:"type:text;not null" json:"message"`
	IsResolved  bool          `gorm:"not null;default:false;index" json:"is_resolved"`
	ResolvedAt  *time.Time    `json:"resolved_at"`
	ResolvedBy  *int64        `json:"-"`

	Pregnancy Pregnancy `gorm:"foreignKey:PregnancyID" json:"-"`
}

func (RiskAlert) TableName() string {
	return "risk_alerts"
}
