package contract

import (
	"context"
	"time"

	"activity-tracker-be/internal/entity"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.ActivitySession) error
	Update(ctx context.Context, session *entity.ActivitySession) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.ActivitySession, error)
	FindRecent(ctx context.Context, limit int) ([]*entity.ActivitySession, error)
	FindByRange(ctx context.Context, from, to time.Time) ([]*entity.ActivitySession, error)
}
