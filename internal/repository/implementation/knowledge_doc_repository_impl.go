package implementation

import (
	"context"

	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/mapper"
	"ai-travelplanner-be/internal/model"
	"ai-travelplanner-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeDocRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlanMapper
}

func NewKnowledgeDocRepository(db *gorm.DB) contract.KnowledgeDocRepository {
	return &KnowledgeDocRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlanMapper(),
	}
}

func (r *KnowledgeDocRepositoryImpl) Create(ctx context.Context, doc *entity.KnowledgeDoc) error {
	m := r.mapper.KnowledgeDocToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.KnowledgeDocToEntity(m)
	return nil
}

func (r *KnowledgeDocRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, topK int) ([]*entity.KnowledgeDoc, error) {
	if topK <= 0 {
		topK = 4
	}
	var models []*model.KnowledgeDoc

	// pgvector cosine distance ordering
	err := r.db.WithContext(ctx).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(topK).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.KnowledgeDocsToEntities(models), nil
}

func (r *KnowledgeDocRepositoryImpl) Latest(ctx context.Context, topK int) ([]*entity.KnowledgeDoc, error) {
	if topK <= 0 {
		topK = 4
	}
	var models []*model.KnowledgeDoc
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(topK).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.KnowledgeDocsToEntities(models), nil
}

func (r *KnowledgeDocRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.KnowledgeDoc{}).Count(&count).Error
	return count, err
}
