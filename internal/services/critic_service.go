package services

import (
	"context"
	"os"

	"uiloop/internal/events"
	"uiloop/internal/llm/client"
	"uiloop/internal/llm/parse"
	"uiloop/internal/llm/prompts"
	"uiloop/internal/models"
)

// CriticService runs the optional vision critique over a screenshot.
// Critique never fails the loop: an unreadable file or a failed API call
// yields the fallback report so the iteration proceeds degraded.
type CriticService interface {
	Critique(ctx context.Context, design, screenshotPath string) parse.Result[models.VisualFeedbackReport]
}

type criticService struct {
	llm *client.Client
}

func NewCriticService(llm *client.Client) CriticService {
	return &criticService{llm: llm}
}

func (s *criticService) Critique(ctx context.Context, design, screenshotPath string) parse.Result[models.VisualFeedbackReport] {
	events.Emit(ctx, events.LLMEvent, events.NewInfo("requesting visual critique"))
	png, err := os.ReadFile(screenshotPath)
	if err != nil {
		events.Emit(ctx, events.LLMEvent, events.NewWarn("cannot read screenshot for critique: "+err.Error()))
		return parse.Result[models.VisualFeedbackReport]{Value: parse.FallbackVisualFeedback(), Fallback: true}
	}
	raw, err := s.llm.CompleteVision(ctx, prompts.VisionSystem(), prompts.VisionUser(design), png)
	if err != nil {
		events.Emit(ctx, events.LLMEvent, events.NewWarn("visual critique call failed: "+err.Error()))
		return parse.Result[models.VisualFeedbackReport]{Value: parse.FallbackVisualFeedback(), Fallback: true}
	}
	result := parse.Visual(raw)
	if result.Fallback {
		events.Emit(ctx, events.LLMEvent, events.NewWarn("visual critique response was not valid JSON; using neutral score"))
	}
	return result
}
