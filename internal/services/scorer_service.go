package services

import (
	"context"
	"encoding/json"

	"uiloop/internal/events"
	"uiloop/internal/llm/client"
	"uiloop/internal/llm/parse"
	"uiloop/internal/llm/prompts"
	"uiloop/internal/models"
)

// ScorerService asks the model to grade the browser observations against
// the test plan.
type ScorerService interface {
	Score(ctx context.Context, plan models.TestPlan, obs models.Observations, visual *models.VisualFeedbackReport) (parse.Result[models.FeedbackReport], error)
}

type scorerService struct {
	llm *client.Client
}

func NewScorerService(llm *client.Client) ScorerService {
	return &scorerService{llm: llm}
}

func (s *scorerService) Score(ctx context.Context, plan models.TestPlan, obs models.Observations, visual *models.VisualFeedbackReport) (parse.Result[models.FeedbackReport], error) {
	events.Emit(ctx, events.LLMEvent, events.NewInfo("scoring iteration"))
	planJSON, _ := json.Marshal(plan)
	obsJSON, _ := json.Marshal(obs)
	visualJSON := ""
	if visual != nil {
		if data, err := json.Marshal(visual); err == nil {
			visualJSON = string(data)
		}
	}
	raw, err := s.llm.Complete(ctx, prompts.ScoreSystem(),
		prompts.ScoreUser(string(planJSON), string(obsJSON), visualJSON))
	if err != nil {
		return parse.Result[models.FeedbackReport]{}, err
	}
	result := parse.Feedback(raw)
	if result.Fallback {
		events.Emit(ctx, events.LLMEvent, events.NewWarn("score response was not valid JSON; using neutral score"))
	}
	return result, nil
}
