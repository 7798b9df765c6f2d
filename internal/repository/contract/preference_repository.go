package contract

import (
	"context"

	"ai-travelplanner-be/internal/entity"

	"github.com/google/uuid"
)

type PreferenceRepository interface {
	Upsert(ctx context.Context, pref *entity.UserPreference) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserPreference, error)
}
