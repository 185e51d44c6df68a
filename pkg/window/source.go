package window

import (
	"context"

	"activity-tracker-be/internal/entity"
)

// Source supplies a snapshot of the current foreground window. Capture may
// fail transiently; callers are expected to tolerate errors and carry on.
type Source interface {
	Capture(ctx context.Context) (*entity.WindowInfo, error)
}
