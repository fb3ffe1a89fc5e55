package model

// Visit 产检记录
type Visit struct {
	BaseModel
	PublicID    string `gorm:"type:varchar(32);uniqueIndex;not null" json:"visit_id"`
	PregnancyID int64  `gorm:"not null;index" json:"-"`
	DoctorID    int64  `gorm:"not null;index" json:"-"`

	VisitDate       string `gorm:"type:date;not null" json:"visit_date"`
	VisitType       string `gorm:"type:varchar(32);not null;default:'routine'" json:"visit_type"`
	GestationalWeek int    `gorm:"not null" json:"gestational_week"`

	// 体征与检查结果
	WeightKG           float64 `gorm:"column:weight_kg" json:"weight_kg"`
	BPSystolic         int     `gorm:"column:bp_systolic" json:"blood_pressure_systolic"`
	BPDiastolic        int     `gorm:"column:bp_diastolic" json:"blood_pressure_diastolic"`
	Hemoglobin         float64 `json:"hemoglobin"`
	SugarLevel         float64 `json:"sugar_level"`
	ProteinUrine       string  `gorm:"type:varchar(8)" json:"protein_urine"`
	FundalHeightCM     float64 `gorm:"column:fundal_height_cm" json:"fundal_height"`
	FetalHeartRate     int     `json:"fetal_heart_rate"`
	Complaints         string  `gorm:"type:text" json:"complaints"`
	ExaminationNotes   string  `gorm:"type:text" json:"examination_notes"`
	Advice             string  `gorm:"type:text" json:"advice"`
	NextVisitDate      string  `gorm:"type:date" json:"next_visit_date"`
	RiskFactors        string  `gorm:"type:text" json:"risk_factors"`
	MedicationsAdvised string  `gorm:"type:text" json:"medications"`

	Pregnancy Pregnancy `gorm:"foreignKey:PregnancyID" json:"-"`
}

func (Visit) TableName() string {
	return "visits"
}
