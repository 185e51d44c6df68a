package implementation

import (
	"context"
	"errors"
	"time"

	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/mapper"
	"activity-tracker-be/internal/model"
	"activity-tracker-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.ActivitySession) error {
	m := r.mapper.ToModel(session)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, session *entity.ActivitySession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.ActivitySession, error) {
	var m model.ActivitySession
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindRecent(ctx context.Context, limit int) ([]*entity.ActivitySession, error) {
	var models []*model.ActivitySession
	if err := r.db.WithContext(ctx).
		Order("start_time DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*entity.ActivitySession, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.ToEntity(m)
	}
	return sessions, nil
}

func (r *SessionRepositoryImpl) FindByRange(ctx context.Context, from, to time.Time) ([]*entity.ActivitySession, error) {
	var models []*model.ActivitySession
	if err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*entity.ActivitySession, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.ToEntity(m)
	}
	return sessions, nil
}
