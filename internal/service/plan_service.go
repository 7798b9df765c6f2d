package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-travelplanner-be/internal/dto"
	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/repository/unitofwork"
	"ai-travelplanner-be/pkg/events"
	pktNats "ai-travelplanner-be/pkg/nats"
	"ai-travelplanner-be/pkg/planner"

	"github.com/google/uuid"
)

const searchHistoryKeep = 10

type IPlanService interface {
	GeneratePlan(ctx context.Context, userId string, req *dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error)
}

type planService struct {
	pipeline         *planner.Pipeline
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewPlanService(
	pipeline *planner.Pipeline,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IPlanService {
	return &planService{
		pipeline:         pipeline,
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *planService) GeneratePlan(ctx context.Context, userId string, req *dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error) {
	plan, err := s.pipeline.Generate(ctx, *req, userId)
	if err != nil {
		s.publishEvent(ctx, events.NewPlanFailed(userId, req.Destination, err.Error()))
		return nil, err
	}

	if uid, parseErr := uuid.Parse(userId); parseErr == nil {
		if histErr := s.recordHistory(ctx, uid, req, plan); histErr != nil {
			fmt.Printf("[WARN] Failed to record search history: %v\n", histErr)
		}
		s.queueMemoryDoc(ctx, userId, req, plan)
	}

	s.publishEvent(ctx, events.NewPlanCompleted(userId, req.Destination, req.Days))

	return &dto.GeneratePlanResponse{Plan: plan}, nil
}

func (s *planService) recordHistory(ctx context.Context, userId uuid.UUID, req *dto.GeneratePlanRequest, plan *planner.PlanResponse) error {
	query, err := toMap(req)
	if err != nil {
		return err
	}
	result, err := toMap(plan)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	history := &entity.SearchHistory{
		Id:        uuid.New(),
		UserId:    userId,
		Query:     query,
		Result:    result,
		CreatedAt: time.Now(),
	}
	if err := uow.SearchHistoryRepository().Create(ctx, history); err != nil {
		return err
	}
	if err := uow.SearchHistoryRepository().PruneToLatest(ctx, userId, searchHistoryKeep); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *planService) queueMemoryDoc(ctx context.Context, userId string, req *dto.GeneratePlanRequest, plan *planner.PlanResponse) {
	if s.publisherService == nil {
		return
	}

	payload := dto.PublishMemoryDocMessage{
		UserId:  userId,
		Title:   memoryDocTitle(req),
		Source:  "trip_plan",
		Content: memoryDocContent(req, plan),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("[WARN] Failed to marshal memory doc payload: %v\n", err)
		return
	}
	if err := s.publisherService.Publish(ctx, data); err != nil {
		fmt.Printf("[WARN] Failed to queue memory doc: %v\n", err)
	}
}

func memoryDocTitle(req *dto.GeneratePlanRequest) string {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		destination = "open destination"
	}
	return fmt.Sprintf("Trip plan: %s, %d days from %s", destination, req.Days, req.StartDate)
}

// memoryDocContent distills the request and the chosen destinations into
// a compact text that embeds well. Full itineraries stay in the history
// table.
func memoryDocContent(req *dto.GeneratePlanRequest, plan *planner.PlanResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Requested %d days starting %s for %d travelers.\n", req.Days, req.StartDate, req.Travelers)
	if req.Origin != "" {
		fmt.Fprintf(&b, "Origin: %s.\n", req.Origin)
	}
	if req.Destination != "" {
		fmt.Fprintf(&b, "Destination: %s.\n", req.Destination)
	}
	fmt.Fprintf(&b, "Budget: %s. Pace: %s.\n", req.BudgetLine(), req.Pace)
	if len(req.Preferences) > 0 {
		fmt.Fprintf(&b, "Preferences: %s.\n", strings.Join(req.Preferences, ", "))
	}
	if len(req.Constraints) > 0 {
		fmt.Fprintf(&b, "Constraints: %s.\n", strings.Join(req.Constraints, ", "))
	}

	names := make([]string, 0, len(plan.TopDestinations))
	for _, d := range plan.TopDestinations {
		names = append(names, d.Name)
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, "Suggested alternatives: %s.\n", strings.Join(names, ", "))
	}
	for _, day := range plan.DailyPlan {
		fmt.Fprintf(&b, "Day %d: %s / %s / %s.\n", day.Day, day.Morning.Title, day.Afternoon.Title, day.Evening.Title)
	}
	return b.String()
}

func toMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *planService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", event.EventType(), err)
	}
}
