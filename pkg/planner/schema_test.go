package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestBudgetLine(t *testing.T) {
	cases := []struct {
		name string
		req  PlanRequest
		want string
	}{
		{"free text wins", PlanRequest{BudgetText: "around 800 total", BudgetMin: floatPtr(1)}, "around 800 total"},
		{"range", PlanRequest{BudgetMin: floatPtr(500), BudgetMax: floatPtr(900)}, "500-900"},
		{"min only", PlanRequest{BudgetMin: floatPtr(500)}, ">= 500"},
		{"max only", PlanRequest{BudgetMax: floatPtr(900)}, "<= 900"},
		{"nothing", PlanRequest{}, "unspecified"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.req.BudgetLine())
		})
	}
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", PlanRequest{}.LanguageName())
	assert.Equal(t, "English", PlanRequest{Language: "en-US"}.LanguageName())
	assert.Equal(t, "Chinese", PlanRequest{Language: "zh-CN"}.LanguageName())
	assert.Equal(t, "English", PlanRequest{Language: "fr"}.LanguageName(), "unknown tags default to English")
}

func TestNormalizeDefaults(t *testing.T) {
	req := PlanRequest{StartDate: "2026-09-05", Days: 2}
	req.Normalize()
	assert.Equal(t, 1, req.Travelers)
	assert.Equal(t, "normal", req.Pace)
}

func TestResponseSchemaIsValidJSON(t *testing.T) {
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(ResponseSchema(), &decoded))
	assert.Contains(t, decoded, "$defs")
}

func TestDecodeResponseRejectsMissingFields(t *testing.T) {
	plan := validPlanFixture(2)
	plan.DailyPlan[1].Morning.Title = ""
	raw, err := json.Marshal(plan)
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &data))

	_, err = DecodeResponse(data, PlanRequest{StartDate: "2026-09-05", Days: 2, Travelers: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}
