package contract

import (
	"context"

	"ai-travelplanner-be/internal/entity"
)

type KnowledgeDocRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDoc) error
	// SearchSimilar returns up to topK documents ordered by ascending
	// cosine distance to the query embedding.
	SearchSimilar(ctx context.Context, embedding []float32, topK int) ([]*entity.KnowledgeDoc, error)
	// Latest is the fallback when vector search yields no rows.
	Latest(ctx context.Context, topK int) ([]*entity.KnowledgeDoc, error)
	Count(ctx context.Context) (int64, error)
}
