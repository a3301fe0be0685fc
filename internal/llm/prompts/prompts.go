// Package prompts holds the prompt templates sent to the model. Templates are
// embedded at build time so the binary is self-contained.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed templates/generate_system.txt
var generateSystem string

//go:embed templates/generate_user.txt
var generateUser string

//go:embed templates/plan_system.txt
var planSystem string

//go:embed templates/plan_user.txt
var planUser string

//go:embed templates/score_system.txt
var scoreSystem string

//go:embed templates/score_user.txt
var scoreUser string

//go:embed templates/improve_user.txt
var improveUser string

//go:embed templates/vision_system.txt
var visionSystem string

//go:embed templates/vision_user.txt
var visionUser string

func GenerateSystem() string { return strings.TrimSpace(generateSystem) }

func GenerateUser(design string) string {
	return fmt.Sprintf(strings.TrimSpace(generateUser), design)
}

func PlanSystem() string { return strings.TrimSpace(planSystem) }

func PlanUser(code string) string {
	return fmt.Sprintf(strings.TrimSpace(planUser), code)
}

func ScoreSystem() string { return strings.TrimSpace(scoreSystem) }

// ScoreUser renders the scoring prompt. visualJSON is optional; when present
// it is appended so the reviewer can weigh the visual critique too.
func ScoreUser(planJSON, observationsJSON, visualJSON string) string {
	visualSection := ""
	if strings.TrimSpace(visualJSON) != "" {
		visualSection = "Visual critique:\n" + visualJSON
	}
	return strings.TrimSpace(fmt.Sprintf(strings.TrimSpace(scoreUser), planJSON, observationsJSON, visualSection))
}

// ImproveSystem reuses the generation system prompt: the improvement call has
// the same output contract as the initial one.
func ImproveSystem() string { return GenerateSystem() }

func ImproveUser(design, code, feedbackJSON, visualJSON string) string {
	visualSection := ""
	if strings.TrimSpace(visualJSON) != "" {
		visualSection = "Visual critique:\n" + visualJSON
	}
	return strings.TrimSpace(fmt.Sprintf(strings.TrimSpace(improveUser), design, code, feedbackJSON, visualSection))
}

func VisionSystem() string { return strings.TrimSpace(visionSystem) }

func VisionUser(design string) string {
	return fmt.Sprintf(strings.TrimSpace(visionUser), design)
}
