package contract

import (
	"context"

	"activity-tracker-be/internal/entity"

	"github.com/google/uuid"
)

type RuleRepository interface {
	Save(ctx context.Context, rule *entity.CategoryRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]*entity.CategoryRule, error)

	SavePreference(ctx context.Context, pref *entity.UserPreference) error
	FindAllPreferences(ctx context.Context) ([]*entity.UserPreference, error)

	SaveFeedback(ctx context.Context, record *entity.FeedbackRecord) error
	FindRecentFeedback(ctx context.Context, limit int) ([]*entity.FeedbackRecord, error)
}
