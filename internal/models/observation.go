package models

// ScenarioObservation records what the browser pass actually did for one
// scenario. Failures are observations, not judgments; scoring happens later.
type ScenarioObservation struct {
	Scenario   string   `json:"scenario"`
	Actions    []string `json:"actions"`
	Failures   []string `json:"failures,omitempty"`
	BeforeShot string   `json:"beforeShot,omitempty"`
	AfterShot  string   `json:"afterShot,omitempty"`
}

// AccessibilityAudit carries raw element counts collected in the page.
type AccessibilityAudit struct {
	ImagesMissingAlt   int  `json:"imagesMissingAlt"`
	HasHeadings        bool `json:"hasHeadings"`
	InputsWithoutLabel int  `json:"inputsWithoutLabel"`
}

// Observations is everything the execution step hands to the scorer.
type Observations struct {
	URL           string                `json:"url"`
	Scenarios     []ScenarioObservation `json:"scenarios"`
	Accessibility AccessibilityAudit    `json:"accessibility"`
	Notes         []string              `json:"notes,omitempty"`
}

// LastScreenshot returns the most recent after-shot path, or "" when the
// pass produced none.
func (o Observations) LastScreenshot() string {
	for i := len(o.Scenarios) - 1; i >= 0; i-- {
		if o.Scenarios[i].AfterShot != "" {
			return o.Scenarios[i].AfterShot
		}
	}
	return ""
}
