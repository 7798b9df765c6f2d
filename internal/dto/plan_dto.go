package dto

import (
	"ai-travelplanner-be/pkg/planner"
)

// GeneratePlanRequest mirrors the pipeline input one to one; the planner
// package owns the validation tags.
type GeneratePlanRequest = planner.PlanRequest

type GeneratePlanResponse struct {
	Plan *planner.PlanResponse `json:"plan"`
}

// PublishMemoryDocMessage is the async payload for distilling a finished
// plan into a user memory document.
type PublishMemoryDocMessage struct {
	UserId  string `json:"user_id"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Content string `json:"content"`
}
