package mapper

import (
	"testing"
	"time"

	"ai-travelplanner-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRoundTrip(t *testing.T) {
	m := NewPlanMapper()
	pref := &entity.UserPreference{
		UserId: uuid.New(),
		Data: map[string]interface{}{
			"pace":        "relaxed",
			"preferences": []interface{}{"food", "history"},
		},
		UpdatedAt: time.Now(),
	}

	model, err := m.PreferenceToModel(pref)
	require.NoError(t, err)

	back, err := m.PreferenceToEntity(model)
	require.NoError(t, err)
	assert.Equal(t, pref.UserId, back.UserId)
	assert.Equal(t, "relaxed", back.Data["pace"])
	assert.Len(t, back.Data["preferences"], 2)
}

func TestKnowledgeDocMapperKeepsEmbedding(t *testing.T) {
	m := NewPlanMapper()
	doc := &entity.KnowledgeDoc{
		Id:        uuid.New(),
		Title:     "Lisbon travel notes",
		Source:    "guide",
		Content:   "Trams get crowded in the afternoon.",
		Embedding: []float32{0.1, 0.2, 0.3},
	}

	back := m.KnowledgeDocToEntity(m.KnowledgeDocToModel(doc))
	assert.Equal(t, doc.Id, back.Id)
	assert.Equal(t, doc.Embedding, back.Embedding)
}

func TestMappersHandleNil(t *testing.T) {
	m := NewPlanMapper()
	assert.Nil(t, m.KnowledgeDocToEntity(nil))
	assert.Nil(t, m.MemoryDocToModel(nil))

	pref, err := m.PreferenceToEntity(nil)
	require.NoError(t, err)
	assert.Nil(t, pref)
}
