package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDoc is one shared knowledge-base document with its embedding.
type KnowledgeDoc struct {
	Id        uuid.UUID
	Title     string
	Source    string
	Content   string
	Embedding []float32
	CreatedAt time.Time
}

// UserMemoryDoc is a per-user memory document distilled from past plans.
// Capped at the 100 most recent per user.
type UserMemoryDoc struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Source    string
	Content   string
	Embedding []float32
	CreatedAt time.Time
}

// UserPreference is the single stored preference blob per user.
type UserPreference struct {
	UserId    uuid.UUID
	Data      map[string]interface{}
	UpdatedAt time.Time
}

// SearchHistory is one plan request/response pair. Capped at the 10 most
// recent per user.
type SearchHistory struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Query     map[string]interface{}
	Result    map[string]interface{}
	CreatedAt time.Time
}
