package unitofwork

import (
	"context"

	"ai-travelplanner-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	KnowledgeDocRepository() contract.KnowledgeDocRepository
	UserMemoryDocRepository() contract.UserMemoryDocRepository
	PreferenceRepository() contract.PreferenceRepository
	SearchHistoryRepository() contract.SearchHistoryRepository
}
