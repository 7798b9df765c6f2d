package implementation

import (
	"context"
	"errors"

	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/mapper"
	"ai-travelplanner-be/internal/model"
	"ai-travelplanner-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlanMapper
}

func NewPreferenceRepository(db *gorm.DB) contract.PreferenceRepository {
	return &PreferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlanMapper(),
	}
}

func (r *PreferenceRepositoryImpl) Upsert(ctx context.Context, pref *entity.UserPreference) error {
	m, err := r.mapper.PreferenceToModel(pref)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(m).Error
}

func (r *PreferenceRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserPreference, error) {
	var m model.UserPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PreferenceToEntity(&m)
}
