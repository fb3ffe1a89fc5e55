package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 所有模型的公共字段
type BaseModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
