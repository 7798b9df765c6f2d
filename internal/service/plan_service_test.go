package service

import (
	"testing"

	"ai-travelplanner-be/internal/dto"
	"ai-travelplanner-be/pkg/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlanFixture() *planner.PlanResponse {
	day := planner.DayPlan{
		Day:       1,
		Morning:   planner.ActivityBlock{Title: "Alfama walk", Transport: "walk", CostRange: "0 EUR"},
		Afternoon: planner.ActivityBlock{Title: "Tile museum", Transport: "tram", CostRange: "10 EUR"},
		Evening:   planner.ActivityBlock{Title: "Fado dinner", Transport: "walk", CostRange: "40 EUR"},
	}
	return &planner.PlanResponse{
		TopDestinations: []planner.Destination{
			{Name: "Porto"}, {Name: "Seville"}, {Name: "Madrid"},
		},
		DailyPlan: []planner.DayPlan{day},
	}
}

func TestMemoryDocTitle(t *testing.T) {
	req := &dto.GeneratePlanRequest{Destination: "Lisbon", Days: 3, StartDate: "2026-09-05"}
	assert.Equal(t, "Trip plan: Lisbon, 3 days from 2026-09-05", memoryDocTitle(req))

	open := &dto.GeneratePlanRequest{Days: 5, StartDate: "2026-10-01"}
	assert.Equal(t, "Trip plan: open destination, 5 days from 2026-10-01", memoryDocTitle(open))
}

func TestMemoryDocContentDistillsRequestAndPlan(t *testing.T) {
	req := &dto.GeneratePlanRequest{
		Origin:      "Berlin",
		Destination: "Lisbon",
		StartDate:   "2026-09-05",
		Days:        1,
		Travelers:   2,
		Pace:        "relaxed",
		Preferences: []string{"food", "history"},
		Constraints: []string{"no hiking"},
	}

	content := memoryDocContent(req, testPlanFixture())

	assert.Contains(t, content, "Requested 1 days starting 2026-09-05 for 2 travelers.")
	assert.Contains(t, content, "Origin: Berlin.")
	assert.Contains(t, content, "Destination: Lisbon.")
	assert.Contains(t, content, "Preferences: food, history.")
	assert.Contains(t, content, "Constraints: no hiking.")
	assert.Contains(t, content, "Suggested alternatives: Porto, Seville, Madrid.")
	assert.Contains(t, content, "Day 1: Alfama walk / Tile museum / Fado dinner.")
}

func TestToMapRoundTripsRequest(t *testing.T) {
	req := &dto.GeneratePlanRequest{Destination: "Lisbon", StartDate: "2026-09-05", Days: 3, Travelers: 2}
	m, err := toMap(req)
	require.NoError(t, err)

	assert.Equal(t, "Lisbon", m["destination"])
	assert.Equal(t, float64(3), m["days"])
}
