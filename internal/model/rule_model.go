package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CategoryRule struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Description       string         `gorm:"type:text;not null"`
	Priority          int            `gorm:"not null;index"`
	Category          string         `gorm:"type:text;not null"`
	ProductivityScore float64        `gorm:"not null;default:0.5"`
	Enabled           bool           `gorm:"not null;default:true"`
	AppPatterns       datatypes.JSON `gorm:"type:jsonb"`
	TitlePatterns     datatypes.JSON `gorm:"type:jsonb"`
	RegexPatterns     datatypes.JSON `gorm:"type:jsonb"`
	DomainPatterns    datatypes.JSON `gorm:"type:jsonb"`
	TimeRules         datatypes.JSON `gorm:"type:jsonb"`
	Tags              datatypes.JSON `gorm:"type:jsonb"`
	BuiltIn           bool           `gorm:"not null;default:false"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
}

func (CategoryRule) TableName() string {
	return "category_rules"
}

type UserPreference struct {
	AppName     string    `gorm:"type:text;primaryKey"`
	WindowTitle string    `gorm:"type:text;primaryKey"`
	Category    string    `gorm:"type:text;not null"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

type FeedbackRecord struct {
	Id          uint      `gorm:"primaryKey;autoIncrement"`
	AppName     string    `gorm:"type:text;not null;index"`
	WindowTitle string    `gorm:"type:text"`
	Category    string    `gorm:"type:text;not null"`
	IsCorrect   bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (FeedbackRecord) TableName() string {
	return "feedback_records"
}
