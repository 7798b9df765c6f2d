package implementation

import (
	"context"

	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/mapper"
	"ai-travelplanner-be/internal/model"
	"ai-travelplanner-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SearchHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlanMapper
}

func NewSearchHistoryRepository(db *gorm.DB) contract.SearchHistoryRepository {
	return &SearchHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlanMapper(),
	}
}

func (r *SearchHistoryRepositoryImpl) Create(ctx context.Context, history *entity.SearchHistory) error {
	m, err := r.mapper.HistoryToModel(history)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	created, err := r.mapper.HistoryToEntity(m)
	if err != nil {
		return err
	}
	*history = *created
	return nil
}

func (r *SearchHistoryRepositoryImpl) ListByUser(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.SearchHistory, error) {
	if limit <= 0 {
		limit = 10
	}
	var models []*model.SearchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.SearchHistory, len(models))
	for i, m := range models {
		e, err := r.mapper.HistoryToEntity(m)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func (r *SearchHistoryRepositoryImpl) PruneToLatest(ctx context.Context, userId uuid.UUID, keepN int) error {
	if keepN <= 0 {
		return nil
	}
	subQuery := r.db.Table("user_search_history").
		Select("id").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Offset(keepN)
	return r.db.WithContext(ctx).
		Where("id IN (?)", subQuery).
		Delete(&model.SearchHistory{}).Error
}
