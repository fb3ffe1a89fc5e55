package model

// UserRole 用户角色
type UserRole string

const (
	RolePregnantWoman UserRole = "pregnant_woman"
	RoleDoctorAsha    UserRole = "doctor_asha"
	RoleAdmin         UserRole = "admin"
)

// User 用户表
type User struct {
	BaseModel
	PublicID     string   `gorm:"type:varchar(32);uniqueIndex;not null" json:"user_id"`
	Username     string   `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Email        string   `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"type:varchar(128);not null" json:"-"`
	FullName     string   `gorm:"type:varchar(128);not null" json:"full_name"`
	Phone        string   `gorm:"type:varchar(32)" json:"phone"`
	Role         UserRole `gorm:"type:varchar(32);not null;default:'pregnant_woman';index" json:"role"`
	IsActive     bool     `gorm:"not null;default:true" json:"is_active"`
}

func (User) TableName() string {
	return "users"
}
