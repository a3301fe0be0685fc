// Package parse decodes model output that is supposed to be JSON but often
// arrives wrapped in prose or code fences. Every decoder in this package is
// total: a response that cannot be decoded yields a fixed fallback value and
// a Fallback flag instead of an error.
package parse

import (
	"encoding/json"
	"strings"

	"uiloop/internal/models"
)

// Result pairs a decoded value with whether it came from the fallback path.
// Raw keeps the original response for diagnostics.
type Result[T any] struct {
	Value    T
	Fallback bool
	Raw      string
}

// extractObject returns the substring from the first '{' to the last '}'.
// Models habitually surround JSON with prose; everything outside the outermost
// braces is discarded.
func extractObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func decode[T any](raw string, out *T) bool {
	obj, ok := extractObject(raw)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(obj), out) == nil
}

// TestPlan decodes a test plan response, falling back to a single generic
// scenario when the response is not usable JSON.
func TestPlan(raw string) Result[models.TestPlan] {
	var plan models.TestPlan
	if decode(raw, &plan) {
		return Result[models.TestPlan]{Value: plan, Raw: raw}
	}
	return Result[models.TestPlan]{Value: FallbackTestPlan(), Fallback: true, Raw: raw}
}

// Feedback decodes a scoring response. The fallback carries a neutral score
// so a single malformed response degrades an iteration instead of ending it.
func Feedback(raw string) Result[models.FeedbackReport] {
	var report models.FeedbackReport
	if decode(raw, &report) {
		return Result[models.FeedbackReport]{Value: report, Raw: raw}
	}
	return Result[models.FeedbackReport]{Value: FallbackFeedback(), Fallback: true, Raw: raw}
}

// Visual decodes a vision critique response.
func Visual(raw string) Result[models.VisualFeedbackReport] {
	var report models.VisualFeedbackReport
	if decode(raw, &report) {
		return Result[models.VisualFeedbackReport]{Value: report, Raw: raw}
	}
	return Result[models.VisualFeedbackReport]{Value: FallbackVisualFeedback(), Fallback: true, Raw: raw}
}

// FallbackTestPlan is the plan used when the planner response is unreadable:
// one scenario that exercises whatever the page offers.
func FallbackTestPlan() models.TestPlan {
	return models.TestPlan{
		TestScenarios: []models.TestScenario{
			{
				Name:            "generic interaction pass",
				Description:     "Exercise visible controls since no structured plan was available",
				Steps:           []string{"Interact with visible buttons, inputs and links"},
				ExpectedOutcome: "The page responds without errors",
			},
		},
		UsabilityChecks:     []string{"Controls respond to interaction"},
		AccessibilityChecks: []string{"Images have alt text", "Inputs have labels"},
	}
}

// FallbackFeedback is the neutral score used when a scoring response is
// unreadable. 0.5 never crosses the default threshold, so the loop keeps
// iterating rather than declaring success on garbage.
func FallbackFeedback() models.FeedbackReport {
	return models.FeedbackReport{
		OverallScore: 0.5,
		Issues:       []string{"Evaluation response could not be parsed"},
		Improvements: []string{"Re-evaluate on the next iteration"},
		Reasoning:    "The evaluation response was not valid JSON; using a neutral score.",
	}
}

// FallbackVisualFeedback mirrors FallbackFeedback for the vision critique.
func FallbackVisualFeedback() models.VisualFeedbackReport {
	return models.VisualFeedbackReport{
		VisualScore:     0.5,
		DesignIssues:    []string{"Visual critique response could not be parsed"},
		VisualReasoning: "The critique response was not valid JSON; using a neutral score.",
	}
}
