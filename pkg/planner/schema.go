// Package planner drives the multi-stage plan generation pipeline:
// planner -> optional budget/risk -> integrator, with schema validation
// and corrective re-prompting at every stage.
package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrInvalidRequest marks requests rejected before any model call.
var ErrInvalidRequest = fmt.Errorf("invalid plan request")

// PlanRequest is the language-independent trip request. Origin and
// Destination are optional; when Destination is empty the planner picks
// candidate cities itself.
type PlanRequest struct {
	Origin      string   `json:"origin,omitempty"`
	Destination string   `json:"destination,omitempty"`
	StartDate   string   `json:"start_date" validate:"required"`
	Days        int      `json:"days" validate:"required,min=1,max=30"`
	Travelers   int      `json:"travelers" validate:"min=1,max=20"`
	BudgetMin   *float64 `json:"budget_min,omitempty" validate:"omitempty,gte=0"`
	BudgetMax   *float64 `json:"budget_max,omitempty" validate:"omitempty,gte=0"`
	BudgetText  string   `json:"budget_text,omitempty"`
	Preferences []string `json:"preferences"`
	Pace        string   `json:"pace"`
	Constraints []string `json:"constraints"`
	Language    string   `json:"language,omitempty"`
}

// Normalize fills defaults the way the public API documents them.
func (r *PlanRequest) Normalize() {
	if r.Travelers == 0 {
		r.Travelers = 1
	}
	if strings.TrimSpace(r.Pace) == "" {
		r.Pace = "normal"
	}
}

// Validate enforces the request bounds before any model call is made.
func (r *PlanRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// BudgetLine renders the budget constraint for prompts. Free text wins
// over the numeric range.
func (r PlanRequest) BudgetLine() string {
	if strings.TrimSpace(r.BudgetText) != "" {
		return r.BudgetText
	}
	switch {
	case r.BudgetMin != nil && r.BudgetMax != nil:
		return fmt.Sprintf("%g-%g", *r.BudgetMin, *r.BudgetMax)
	case r.BudgetMin != nil:
		return fmt.Sprintf(">= %g", *r.BudgetMin)
	case r.BudgetMax != nil:
		return fmt.Sprintf("<= %g", *r.BudgetMax)
	default:
		return "unspecified"
	}
}

// LanguageName maps the request language tag to the output language named
// in the prompts. English is the default.
func (r PlanRequest) LanguageName() string {
	lowered := strings.ToLower(strings.TrimSpace(r.Language))
	if strings.HasPrefix(lowered, "zh") {
		return "Chinese"
	}
	return "English"
}

// Destination is one recommended alternative city.
type Destination struct {
	Name        string   `json:"name" validate:"required"`
	Reasons     []string `json:"reasons" validate:"required,min=1"`
	BudgetRange string   `json:"budget_range" validate:"required"`
	Transport   string   `json:"transport" validate:"required"`
	BestSeason  string   `json:"best_season" validate:"required"`
}

// ActivityBlock is one morning/afternoon/evening slot of a day.
type ActivityBlock struct {
	Title         string   `json:"title" validate:"required"`
	Transport     string   `json:"transport" validate:"required"`
	DurationHours float64  `json:"duration_hours" validate:"gte=0"`
	CostRange     string   `json:"cost_range" validate:"required"`
	Alternatives  []string `json:"alternatives"`
}

type DayPlan struct {
	Day       int           `json:"day" validate:"min=1"`
	Morning   ActivityBlock `json:"morning"`
	Afternoon ActivityBlock `json:"afternoon"`
	Evening   ActivityBlock `json:"evening"`
}

type BudgetBreakdown struct {
	Transport      string `json:"transport" validate:"required"`
	Lodging        string `json:"lodging" validate:"required"`
	Food           string `json:"food" validate:"required"`
	Tickets        string `json:"tickets" validate:"required"`
	LocalTransport string `json:"local_transport" validate:"required"`
}

// PlanResponse is the terminal contract of the pipeline. Everything before
// the integrator exists to produce an object that passes DecodeResponse.
type PlanResponse struct {
	TopDestinations []Destination   `json:"top_destinations" validate:"len=3,dive"`
	DailyPlan       []DayPlan       `json:"daily_plan" validate:"min=1,dive"`
	BudgetBreakdown BudgetBreakdown `json:"budget_breakdown"`
	Warnings        []string        `json:"warnings"`
}

// DecodeResponse converts an extracted JSON object into a validated
// PlanResponse. Beyond the structural tags it enforces the two semantic
// constraints the prompts ask for: one daily entry per requested day, and
// top_destinations listing alternatives only, never the requested city.
func DecodeResponse(data map[string]interface{}, req PlanRequest) (*PlanResponse, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode candidate response: %w", err)
	}
	var resp PlanResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("response does not match the schema: %v", err)
	}
	if err := validate.Struct(&resp); err != nil {
		return nil, fmt.Errorf("response failed validation: %v", err)
	}
	if len(resp.DailyPlan) != req.Days {
		return nil, fmt.Errorf("daily_plan must have exactly %d entries, got %d", req.Days, len(resp.DailyPlan))
	}
	if requested := strings.TrimSpace(req.Destination); requested != "" {
		for _, d := range resp.TopDestinations {
			if strings.EqualFold(strings.TrimSpace(d.Name), requested) {
				return nil, fmt.Errorf("top_destinations must list alternatives only and exclude %q", requested)
			}
		}
	}
	return &resp, nil
}

// responseSchemaJSON mirrors the PlanResponse shape for json_schema
// response mode and for embedding into the integrator prompt.
const responseSchemaJSON = `{
  "type": "object",
  "properties": {
    "top_destinations": {"type": "array", "items": {"$ref": "#/$defs/Destination"}},
    "daily_plan": {"type": "array", "items": {"$ref": "#/$defs/DayPlan"}},
    "budget_breakdown": {"$ref": "#/$defs/BudgetBreakdown"},
    "warnings": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["top_destinations", "daily_plan", "budget_breakdown", "warnings"],
  "additionalProperties": false,
  "$defs": {
    "Destination": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "reasons": {"type": "array", "items": {"type": "string"}},
        "budget_range": {"type": "string"},
        "transport": {"type": "string"},
        "best_season": {"type": "string"}
      },
      "required": ["name", "reasons", "budget_range", "transport", "best_season"],
      "additionalProperties": false
    },
    "ActivityBlock": {
      "type": "object",
      "properties": {
        "title": {"type": "string"},
        "transport": {"type": "string"},
        "duration_hours": {"type": "number"},
        "cost_range": {"type": "string"},
        "alternatives": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["title", "transport", "duration_hours", "cost_range", "alternatives"],
      "additionalProperties": false
    },
    "DayPlan": {
      "type": "object",
      "properties": {
        "day": {"type": "integer"},
        "morning": {"$ref": "#/$defs/ActivityBlock"},
        "afternoon": {"$ref": "#/$defs/ActivityBlock"},
        "evening": {"$ref": "#/$defs/ActivityBlock"}
      },
      "required": ["day", "morning", "afternoon", "evening"],
      "additionalProperties": false
    },
    "BudgetBreakdown": {
      "type": "object",
      "properties": {
        "transport": {"type": "string"},
        "lodging": {"type": "string"},
        "food": {"type": "string"},
        "tickets": {"type": "string"},
        "local_transport": {"type": "string"}
      },
      "required": ["transport", "lodging", "food", "tickets", "local_transport"],
      "additionalProperties": false
    }
  }
}`

// ResponseSchema returns the PlanResponse JSON schema for providers running
// in json_schema mode.
func ResponseSchema() json.RawMessage {
	return json.RawMessage(responseSchemaJSON)
}
