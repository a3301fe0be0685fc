package services

import (
	"context"

	"uiloop/internal/events"
	"uiloop/internal/llm/client"
	"uiloop/internal/llm/parse"
	"uiloop/internal/llm/prompts"
	"uiloop/internal/models"
)

// PlannerService asks the model for a test plan matching the current code.
type PlannerService interface {
	Plan(ctx context.Context, code string) (parse.Result[models.TestPlan], error)
}

type plannerService struct {
	llm *client.Client
}

func NewPlannerService(llm *client.Client) PlannerService {
	return &plannerService{llm: llm}
}

func (s *plannerService) Plan(ctx context.Context, code string) (parse.Result[models.TestPlan], error) {
	events.Emit(ctx, events.LLMEvent, events.NewInfo("planning test scenarios"))
	raw, err := s.llm.Complete(ctx, prompts.PlanSystem(), prompts.PlanUser(code))
	if err != nil {
		return parse.Result[models.TestPlan]{}, err
	}
	result := parse.TestPlan(raw)
	if result.Fallback {
		events.Emit(ctx, events.LLMEvent, events.NewWarn("test plan response was not valid JSON; using generic plan"))
	}
	return result, nil
}
