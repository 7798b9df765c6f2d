package contract

import (
	"context"

	"ai-travelplanner-be/internal/entity"

	"github.com/google/uuid"
)

type SearchHistoryRepository interface {
	Create(ctx context.Context, history *entity.SearchHistory) error
	ListByUser(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.SearchHistory, error)
	// PruneToLatest deletes every record of the user beyond the keepN most
	// recent ones.
	PruneToLatest(ctx context.Context, userId uuid.UUID, keepN int) error
}
