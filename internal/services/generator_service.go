package services

import (
	"context"
	"encoding/json"

	"uiloop/internal/events"
	"uiloop/internal/llm/client"
	"uiloop/internal/llm/extract"
	"uiloop/internal/llm/prompts"
	"uiloop/internal/models"
)

// GeneratorService produces and revises component source through the model.
type GeneratorService interface {
	Generate(ctx context.Context, design string) (string, error)
	Improve(ctx context.Context, design, code string, feedback models.FeedbackReport, visual *models.VisualFeedbackReport) (string, error)
}

type generatorService struct {
	llm *client.Client
}

func NewGeneratorService(llm *client.Client) GeneratorService {
	return &generatorService{llm: llm}
}

func (s *generatorService) Generate(ctx context.Context, design string) (string, error) {
	events.Emit(ctx, events.LLMEvent, events.NewInfo("generating component"))
	raw, err := s.llm.Complete(ctx, prompts.GenerateSystem(), prompts.GenerateUser(design))
	if err != nil {
		return "", err
	}
	return extract.Code(raw), nil
}

func (s *generatorService) Improve(ctx context.Context, design, code string, feedback models.FeedbackReport, visual *models.VisualFeedbackReport) (string, error) {
	events.Emit(ctx, events.LLMEvent, events.NewInfo("improving component"))
	feedbackJSON, _ := json.Marshal(feedback)
	visualJSON := ""
	if visual != nil {
		if data, err := json.Marshal(visual); err == nil {
			visualJSON = string(data)
		}
	}
	raw, err := s.llm.Complete(ctx, prompts.ImproveSystem(),
		prompts.ImproveUser(design, code, string(feedbackJSON), visualJSON))
	if err != nil {
		return "", err
	}
	return extract.Code(raw), nil
}
