package model

import (
	"time"

	"github.com/google/uuid"
)

type ActivitySession struct {
	Id                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StartTime         time.Time  `gorm:"not null;index"`
	EndTime           *time.Time `gorm:"index"`
	DurationSeconds   int64      `gorm:"not null;default:0"`
	AppName           string     `gorm:"type:text;not null;index"`
	AppPath           string     `gorm:"type:text"`
	WindowTitle       string     `gorm:"type:text"`
	Category          string     `gorm:"type:text;index"`
	ProductivityScore float64    `gorm:"not null;default:0"`
	IsIdle            bool       `gorm:"not null;default:false"`
	IsActive          bool       `gorm:"not null;default:false"`
	Hostname          string     `gorm:"type:text"`
	OS                string     `gorm:"type:text"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

func (ActivitySession) TableName() string {
	return "activity_sessions"
}
