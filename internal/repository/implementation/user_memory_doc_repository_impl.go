package implementation

import (
	"context"

	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/mapper"
	"ai-travelplanner-be/internal/model"
	"ai-travelplanner-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type UserMemoryDocRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlanMapper
}

func NewUserMemoryDocRepository(db *gorm.DB) contract.UserMemoryDocRepository {
	return &UserMemoryDocRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlanMapper(),
	}
}

func (r *UserMemoryDocRepositoryImpl) Create(ctx context.Context, doc *entity.UserMemoryDoc) error {
	m := r.mapper.MemoryDocToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.MemoryDocToEntity(m)
	return nil
}

func (r *UserMemoryDocRepositoryImpl) SearchSimilarForUser(ctx context.Context, userId uuid.UUID, embedding []float32, topK int) ([]*entity.UserMemoryDoc, error) {
	if topK <= 0 {
		topK = 4
	}
	var models []*model.UserMemoryDoc
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(topK).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.MemoryDocsToEntities(models), nil
}

func (r *UserMemoryDocRepositoryImpl) Prune(ctx context.Context, userId uuid.UUID, keepN int) error {
	if keepN <= 0 {
		return nil
	}
	// Delete everything past the keepN newest rows for this user.
	subQuery := r.db.Table("user_memory_docs").
		Select("id").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Offset(keepN)
	return r.db.WithContext(ctx).
		Where("id IN (?)", subQuery).
		Delete(&model.UserMemoryDoc{}).Error
}
