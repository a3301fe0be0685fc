// Package loop runs the generate / exercise / score cycle until the
// component clears the feedback threshold or the iteration cap is reached.
package loop

import (
	"context"
	"fmt"
	"time"

	"uiloop/internal/config"
	"uiloop/internal/events"
	"uiloop/internal/models"
	"uiloop/internal/repositories"
	"uiloop/internal/services"
)

// Browser exercises the running app against a test plan.
type Browser interface {
	Exercise(ctx context.Context, url string, plan models.TestPlan, iteration int) (models.Observations, error)
}

// ConfirmFunc asks the operator a yes/no question. It is only consulted when
// human input is enabled.
type ConfirmFunc func(question string) bool

// Meta carries run metadata that the controller reports but does not produce.
type Meta struct {
	GitBranch string
	GitCommit string
}

// Controller wires the services into the iteration state machine.
type Controller struct {
	cfg       config.Config
	generator services.GeneratorService
	planner   services.PlannerService
	scorer    services.ScorerService
	critic    services.CriticService
	artifacts services.ArtifactService
	browser   Browser
	runs      repositories.RunRepository
	reports   services.ReportService
	confirm   ConfirmFunc
	meta      Meta
}

func NewController(
	cfg config.Config,
	generator services.GeneratorService,
	planner services.PlannerService,
	scorer services.ScorerService,
	critic services.CriticService,
	artifacts services.ArtifactService,
	browser Browser,
	runs repositories.RunRepository,
	reports services.ReportService,
	confirm ConfirmFunc,
	meta Meta,
) *Controller {
	return &Controller{
		cfg:       cfg,
		generator: generator,
		planner:   planner,
		scorer:    scorer,
		critic:    critic,
		artifacts: artifacts,
		browser:   browser,
		runs:      runs,
		reports:   reports,
		confirm:   confirm,
		meta:      meta,
	}
}

// Run executes the full loop and writes the final report. It returns an
// error only for failures the loop cannot degrade around: code generation,
// planning transport errors, an unreachable page, or persistence failures.
func (c *Controller) Run(ctx context.Context) error {
	run := &models.Run{
		DesignPrompt:  c.cfg.DesignPrompt,
		Provider:      c.cfg.Provider,
		ModelKey:      c.cfg.Model,
		Threshold:     c.cfg.FeedbackThreshold,
		MaxIterations: c.cfg.MaxIterations,
	}
	if err := c.runs.CreateRun(run); err != nil {
		return err
	}

	var (
		code         string
		finalScore   float64
		thresholdMet bool
		iterations   int
		records      []models.IterationRecord
	)

	for i := 1; i <= c.cfg.MaxIterations; i++ {
		events.Emit(ctx, events.LoopEvent, events.NewInfo(
			fmt.Sprintf("iteration %d of %d", i, c.cfg.MaxIterations)))

		if i == 1 {
			var err error
			code, err = c.initialCode(ctx)
			if err != nil {
				return err
			}
		}

		if err := c.artifacts.Write(code); err != nil {
			return err
		}
		if err := c.artifacts.WaitForReload(ctx); err != nil {
			return err
		}

		planResult, err := c.planner.Plan(ctx, code)
		if err != nil {
			return err
		}

		obs, err := c.browser.Exercise(ctx, c.cfg.AppURL, planResult.Value, i)
		if err != nil {
			return err
		}

		var visual *models.VisualFeedbackReport
		visualDegraded := false
		if c.cfg.VisualCritique {
			if shot := obs.LastScreenshot(); shot != "" {
				critique := c.critic.Critique(ctx, c.cfg.DesignPrompt, shot)
				visual = &critique.Value
				visualDegraded = critique.Fallback
			}
		}

		scoreResult, err := c.scorer.Score(ctx, planResult.Value, obs, visual)
		if err != nil {
			return err
		}
		feedback := scoreResult.Value
		finalScore = feedback.OverallScore
		iterations = i

		record := models.IterationRecord{
			RunID:           run.ID,
			Index:           i,
			FunctionalScore: feedback.OverallScore,
			Degraded:        planResult.Fallback || scoreResult.Fallback || visualDegraded,
			Feedback:        feedback,
			VisualFeedback:  visual,
		}
		if visual != nil {
			record.VisualScore = &visual.VisualScore
		}
		if err := c.runs.AppendIteration(&record); err != nil {
			return err
		}
		records = append(records, record)

		events.Emit(ctx, events.LoopEvent, events.NewInfo(
			fmt.Sprintf("iteration %d scored %.2f (threshold %.2f)", i, feedback.OverallScore, c.cfg.FeedbackThreshold)))

		if feedback.OverallScore >= c.cfg.FeedbackThreshold {
			thresholdMet = true
			// Above the threshold with open issues, the operator may still
			// choose to keep iterating.
			if c.cfg.HumanInput && hasIssues(feedback, visual) && i < c.cfg.MaxIterations &&
				c.confirm != nil && c.confirm("Score met the threshold but issues remain. Keep improving?") {
				thresholdMet = false
			} else {
				events.Emit(ctx, events.LoopEvent, events.NewSuccess("threshold met"))
				break
			}
		}

		if i == c.cfg.MaxIterations {
			break
		}

		improved, err := c.generator.Improve(ctx, c.cfg.DesignPrompt, code, feedback, visual)
		if err != nil {
			return err
		}
		code = improved
	}

	if err := c.runs.FinalizeRun(run.ID, map[string]interface{}{
		"final_score":   finalScore,
		"iterations":    iterations,
		"threshold_met": thresholdMet,
	}); err != nil {
		return err
	}

	report := models.RunReport{
		DesignPrompt:  c.cfg.DesignPrompt,
		Provider:      c.cfg.Provider,
		Model:         c.cfg.Model,
		Threshold:     c.cfg.FeedbackThreshold,
		MaxIterations: c.cfg.MaxIterations,
		ThresholdMet:  thresholdMet,
		FinalScore:    finalScore,
		GitBranch:     c.meta.GitBranch,
		GitCommit:     c.meta.GitCommit,
		Iterations:    records,
		FinalCode:     code,
		GeneratedAt:   time.Now(),
	}
	if err := c.reports.Write(report); err != nil {
		return err
	}

	if thresholdMet {
		events.Emit(ctx, events.LoopEvent, events.NewSuccess(
			fmt.Sprintf("finished after %d iteration(s) with score %.2f", iterations, finalScore)))
	} else {
		events.Emit(ctx, events.LoopEvent, events.NewWarn(
			fmt.Sprintf("iteration cap reached; best score %.2f below threshold %.2f", finalScore, c.cfg.FeedbackThreshold)))
	}
	return nil
}

// initialCode produces the first iteration's source: freshly generated, or
// read back from the project when generation is skipped.
func (c *Controller) initialCode(ctx context.Context) (string, error) {
	if c.cfg.SkipGeneration {
		events.Emit(ctx, events.LoopEvent, events.NewInfo("skipping generation; using existing component"))
		code, err := c.artifacts.Read()
		if err != nil {
			return "", fmt.Errorf("generation skipped but no component found at %s: %w", c.artifacts.Path(), err)
		}
		return code, nil
	}
	return c.generator.Generate(ctx, c.cfg.DesignPrompt)
}

func hasIssues(feedback models.FeedbackReport, visual *models.VisualFeedbackReport) bool {
	return feedback.HasIssues() || visual.HasIssues()
}
