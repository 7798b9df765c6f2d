package service

import (
	"context"

	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/repository/unitofwork"
	"ai-travelplanner-be/pkg/retrieval"

	"github.com/google/uuid"
)

// KnowledgeStore adapts the knowledge doc repository to the retrieval
// assembler.
type KnowledgeStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewKnowledgeStore(uowFactory unitofwork.RepositoryFactory) *KnowledgeStore {
	return &KnowledgeStore{uowFactory: uowFactory}
}

func (s *KnowledgeStore) SearchSimilar(ctx context.Context, embedding []float32, topK int) ([]retrieval.Chunk, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.KnowledgeDocRepository().SearchSimilar(ctx, embedding, topK)
	if err != nil {
		return nil, err
	}
	return knowledgeChunks(docs), nil
}

func (s *KnowledgeStore) Latest(ctx context.Context, topK int) ([]retrieval.Chunk, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.KnowledgeDocRepository().Latest(ctx, topK)
	if err != nil {
		return nil, err
	}
	return knowledgeChunks(docs), nil
}

func knowledgeChunks(docs []*entity.KnowledgeDoc) []retrieval.Chunk {
	chunks := make([]retrieval.Chunk, len(docs))
	for i, d := range docs {
		chunks[i] = retrieval.Chunk{
			ID:      d.Id.String(),
			Title:   d.Title,
			Source:  d.Source,
			Content: d.Content,
		}
	}
	return chunks
}

// MemoryStore adapts the per-user memory doc repository to the retrieval
// assembler.
type MemoryStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMemoryStore(uowFactory unitofwork.RepositoryFactory) *MemoryStore {
	return &MemoryStore{uowFactory: uowFactory}
}

func (s *MemoryStore) SearchSimilarForUser(ctx context.Context, userID string, embedding []float32, topK int) ([]retrieval.Chunk, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.UserMemoryDocRepository().SearchSimilarForUser(ctx, id, embedding, topK)
	if err != nil {
		return nil, err
	}
	chunks := make([]retrieval.Chunk, len(docs))
	for i, d := range docs {
		chunks[i] = retrieval.Chunk{
			ID:      d.Id.String(),
			Title:   d.Title,
			Source:  d.Source,
			Content: d.Content,
		}
	}
	return chunks, nil
}
