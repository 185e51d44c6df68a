package mapper

import (
	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToModel(e *entity.ActivitySession) *model.ActivitySession {
	return &model.ActivitySession{
		Id:                e.Id,
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		DurationSeconds:   e.DurationSeconds,
		AppName:           e.AppName,
		AppPath:           e.AppPath,
		WindowTitle:       e.WindowTitle,
		Category:          e.Category,
		ProductivityScore: e.ProductivityScore,
		IsIdle:            e.IsIdle,
		IsActive:          e.IsActive,
		Hostname:          e.Hostname,
		OS:                e.OS,
		CreatedAt:         e.CreatedAt,
	}
}

func (m *SessionMapper) ToEntity(mo *model.ActivitySession) *entity.ActivitySession {
	updatedAt := mo.UpdatedAt
	return &entity.ActivitySession{
		Id:                mo.Id,
		StartTime:         mo.StartTime,
		EndTime:           mo.EndTime,
		DurationSeconds:   mo.DurationSeconds,
		AppName:           mo.AppName,
		AppPath:           mo.AppPath,
		WindowTitle:       mo.WindowTitle,
		Category:          mo.Category,
		ProductivityScore: mo.ProductivityScore,
		IsIdle:            mo.IsIdle,
		IsActive:          mo.IsActive,
		Hostname:          mo.Hostname,
		OS:                mo.OS,
		CreatedAt:         mo.CreatedAt,
		UpdatedAt:         &updatedAt,
	}
}
