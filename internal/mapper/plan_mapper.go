package mapper

import (
	"encoding/json"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/model"
)

type PlanMapper struct{}

func NewPlanMapper() *PlanMapper {
	return &PlanMapper{}
}

func (m *PlanMapper) KnowledgeDocToEntity(d *model.KnowledgeDoc) *entity.KnowledgeDoc {
	if d == nil {
		return nil
	}
	return &entity.KnowledgeDoc{
		Id:        d.Id,
		Title:     d.Title,
		Source:    d.Source,
		Content:   d.Content,
		Embedding: d.Embedding.Slice(),
		CreatedAt: d.CreatedAt,
	}
}

func (m *PlanMapper) KnowledgeDocToModel(d *entity.KnowledgeDoc) *model.KnowledgeDoc {
	if d == nil {
		return nil
	}
	return &model.KnowledgeDoc{
		Id:        d.Id,
		Title:     d.Title,
		Source:    d.Source,
		Content:   d.Content,
		Embedding: pgvector.NewVector(d.Embedding),
		CreatedAt: d.CreatedAt,
	}
}

func (m *PlanMapper) KnowledgeDocsToEntities(docs []*model.KnowledgeDoc) []*entity.KnowledgeDoc {
	entities := make([]*entity.KnowledgeDoc, len(docs))
	for i, d := range docs {
		entities[i] = m.KnowledgeDocToEntity(d)
	}
	return entities
}

func (m *PlanMapper) MemoryDocToEntity(d *model.UserMemoryDoc) *entity.UserMemoryDoc {
	if d == nil {
		return nil
	}
	return &entity.UserMemoryDoc{
		Id:        d.Id,
		UserId:    d.UserId,
		Title:     d.Title,
		Source:    d.Source,
		Content:   d.Content,
		Embedding: d.Embedding.Slice(),
		CreatedAt: d.CreatedAt,
	}
}

func (m *PlanMapper) MemoryDocToModel(d *entity.UserMemoryDoc) *model.UserMemoryDoc {
	if d == nil {
		return nil
	}
	return &model.UserMemoryDoc{
		Id:        d.Id,
		UserId:    d.UserId,
		Title:     d.Title,
		Source:    d.Source,
		Content:   d.Content,
		Embedding: pgvector.NewVector(d.Embedding),
		CreatedAt: d.CreatedAt,
	}
}

func (m *PlanMapper) MemoryDocsToEntities(docs []*model.UserMemoryDoc) []*entity.UserMemoryDoc {
	entities := make([]*entity.UserMemoryDoc, len(docs))
	for i, d := range docs {
		entities[i] = m.MemoryDocToEntity(d)
	}
	return entities
}

func (m *PlanMapper) PreferenceToEntity(p *model.UserPreference) (*entity.UserPreference, error) {
	if p == nil {
		return nil, nil
	}
	data := map[string]interface{}{}
	if len(p.Data) > 0 {
		if err := json.Unmarshal(p.Data, &data); err != nil {
			return nil, err
		}
	}
	return &entity.UserPreference{
		UserId:    p.UserId,
		Data:      data,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (m *PlanMapper) PreferenceToModel(p *entity.UserPreference) (*model.UserPreference, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p.Data)
	if err != nil {
		return nil, err
	}
	return &model.UserPreference{
		UserId:    p.UserId,
		Data:      datatypes.JSON(raw),
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (m *PlanMapper) HistoryToEntity(h *model.SearchHistory) (*entity.SearchHistory, error) {
	if h == nil {
		return nil, nil
	}
	query := map[string]interface{}{}
	result := map[string]interface{}{}
	if len(h.Query) > 0 {
		if err := json.Unmarshal(h.Query, &query); err != nil {
			return nil, err
		}
	}
	if len(h.Result) > 0 {
		if err := json.Unmarshal(h.Result, &result); err != nil {
			return nil, err
		}
	}
	return &entity.SearchHistory{
		Id:        h.Id,
		UserId:    h.UserId,
		Query:     query,
		Result:    result,
		CreatedAt: h.CreatedAt,
	}, nil
}

func (m *PlanMapper) HistoryToModel(h *entity.SearchHistory) (*model.SearchHistory, error) {
	if h == nil {
		return nil, nil
	}
	query, err := json.Marshal(h.Query)
	if err != nil {
		return nil, err
	}
	result, err := json.Marshal(h.Result)
	if err != nil {
		return nil, err
	}
	return &model.SearchHistory{
		Id:        h.Id,
		UserId:    h.UserId,
		Query:     datatypes.JSON(query),
		Result:    datatypes.JSON(result),
		CreatedAt: h.CreatedAt,
	}, nil
}
