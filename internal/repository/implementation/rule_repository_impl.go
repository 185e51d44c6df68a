package implementation

import (
	"context"

	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/mapper"
	"activity-tracker-be/internal/model"
	"activity-tracker-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RuleMapper
}

func NewRuleRepository(db *gorm.DB) contract.RuleRepository {
	return &RuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewRuleMapper(),
	}
}

func (r *RuleRepositoryImpl) Save(ctx context.Context, rule *entity.CategoryRule) error {
	m := r.mapper.ToModel(rule)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *RuleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CategoryRule{}, "id = ?", id).Error
}

func (r *RuleRepositoryImpl) FindAll(ctx context.Context) ([]*entity.CategoryRule, error) {
	var models []*model.CategoryRule
	if err := r.db.WithContext(ctx).Order("priority ASC, created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	rules := make([]*entity.CategoryRule, len(models))
	for i, m := range models {
		rules[i] = r.mapper.ToEntity(m)
	}
	return rules, nil
}

func (r *RuleRepositoryImpl) SavePreference(ctx context.Context, pref *entity.UserPreference) error {
	m := r.mapper.PreferenceToModel(pref)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_name"}, {Name: "window_title"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "updated_at"}),
	}).Create(m).Error
}

func (r *RuleRepositoryImpl) FindAllPreferences(ctx context.Context) ([]*entity.UserPreference, error) {
	var models []*model.UserPreference
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	prefs := make([]*entity.UserPreference, len(models))
	for i, m := range models {
		prefs[i] = r.mapper.PreferenceToEntity(m)
	}
	return prefs, nil
}

func (r *RuleRepositoryImpl) SaveFeedback(ctx context.Context, record *entity.FeedbackRecord) error {
	m := r.mapper.FeedbackToModel(record)
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *RuleRepositoryImpl) FindRecentFeedback(ctx context.Context, limit int) ([]*entity.FeedbackRecord, error) {
	var models []*model.FeedbackRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	// Oldest first, matching the in-memory ring buffer order.
	records := make([]*entity.FeedbackRecord, len(models))
	for i, m := range models {
		records[len(models)-1-i] = r.mapper.FeedbackToEntity(m)
	}
	return records, nil
}
