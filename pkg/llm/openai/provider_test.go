package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openai "github.com/sashabaranov/go-openai"

	"ai-travelplanner-be/pkg/llm"
)

func TestResponseFormatJSONObject(t *testing.T) {
	p := NewOpenAIProvider("openai", llm.Config{
		Model:  "gpt-4o-mini",
		Format: llm.FormatJSONObject,
	})

	format := p.responseFormat()
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, format.Type)
	assert.Nil(t, format.JSONSchema)
}

func TestResponseFormatJSONSchemaIsStrict(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"summary":{"type":"string"}}}`)
	p := NewOpenAIProvider("openai", llm.Config{
		Model:      "gpt-4o-mini",
		Format:     llm.FormatJSONSchema,
		SchemaName: "travel_plan",
		Schema:     schema,
	})

	format := p.responseFormat()
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONSchema, format.Type)
	require.NotNil(t, format.JSONSchema)
	assert.Equal(t, "travel_plan", format.JSONSchema.Name)
	assert.True(t, format.JSONSchema.Strict)
}

func TestResponseFormatSchemaModeWithoutSchemaDegrades(t *testing.T) {
	p := NewOpenAIProvider("openai", llm.Config{
		Model:  "gpt-4o-mini",
		Format: llm.FormatJSONSchema,
	})

	format := p.responseFormat()
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, format.Type)
}

func TestResponseFormatSchemaNameDefaults(t *testing.T) {
	p := NewOpenAIProvider("openai", llm.Config{
		Model:  "gpt-4o-mini",
		Format: llm.FormatJSONSchema,
		Schema: json.RawMessage(`{"type":"object"}`),
	})

	format := p.responseFormat()
	require.NotNil(t, format.JSONSchema)
	assert.Equal(t, "response", format.JSONSchema.Name)
}
