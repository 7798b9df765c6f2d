package contract

import (
	"context"

	"ai-travelplanner-be/internal/entity"

	"github.com/google/uuid"
)

type UserMemoryDocRepository interface {
	Create(ctx context.Context, doc *entity.UserMemoryDoc) error
	SearchSimilarForUser(ctx context.Context, userId uuid.UUID, embedding []float32, topK int) ([]*entity.UserMemoryDoc, error)
	// Prune deletes everything but the keepN most recent documents of one
	// user.
	Prune(ctx context.Context, userId uuid.UUID, keepN int) error
}
