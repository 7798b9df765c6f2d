package bootstrap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-travelplanner-be/internal/config"
	"ai-travelplanner-be/pkg/llm"
)

func providerTestConfig(format string) *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:       "openai",
			APIKey:         "sk-test",
			APIBase:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			ResponseFormat: format,
			TimeoutSeconds: 60,
		},
	}
}

func TestLLMProviderConfigJSONObjectCarriesNoSchema(t *testing.T) {
	got := llmProviderConfig(providerTestConfig("json_object"))

	assert.Equal(t, llm.FormatJSONObject, got.Format)
	assert.Empty(t, got.SchemaName)
	assert.Empty(t, got.Schema)
}

func TestLLMProviderConfigJSONSchemaAttachesPlanSchema(t *testing.T) {
	got := llmProviderConfig(providerTestConfig("json_schema"))

	assert.Equal(t, llm.FormatJSONSchema, got.Format)
	assert.Equal(t, "travel_plan", got.SchemaName)
	require.NotEmpty(t, got.Schema, "strict mode needs the plan schema on the wire")

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(got.Schema, &schema))
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "top_destinations")
	assert.Contains(t, props, "daily_plan")
}

func TestLLMProviderConfigCarriesConnectionFields(t *testing.T) {
	got := llmProviderConfig(providerTestConfig("json_object"))

	assert.Equal(t, "sk-test", got.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", got.BaseURL)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 60, got.TimeoutSeconds)
}
