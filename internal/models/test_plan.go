package models

// TestScenario is a single named interaction scenario from the planner.
type TestScenario struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Steps           []string `json:"steps"`
	ExpectedOutcome string   `json:"expectedOutcome"`
}

// TestPlan is regenerated each iteration from the current component code.
// Plans are not diffed against prior plans.
type TestPlan struct {
	TestScenarios       []TestScenario `json:"testScenarios"`
	UsabilityChecks     []string       `json:"usabilityChecks"`
	AccessibilityChecks []string       `json:"accessibilityChecks"`
}
