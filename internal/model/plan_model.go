package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Embedding dimensionality matches text-embedding-3-small.
const EmbeddingDimensions = 1536

type KnowledgeDoc struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string          `gorm:"type:text;not null"`
	Source    string          `gorm:"type:text"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index"`
}

func (KnowledgeDoc) TableName() string {
	return "knowledge_docs"
}

type UserMemoryDoc struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title     string          `gorm:"type:text;not null"`
	Source    string          `gorm:"type:text"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index"`
}

func (UserMemoryDoc) TableName() string {
	return "user_memory_docs"
}

type UserPreference struct {
	UserId    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

type SearchHistory struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Query     datatypes.JSON `gorm:"type:jsonb;not null"`
	Result    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

func (SearchHistory) TableName() string {
	return "user_search_history"
}
