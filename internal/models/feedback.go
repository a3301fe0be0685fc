package models

// FeedbackReport is the structured critique returned by the scoring step.
// A fresh report is produced every iteration; reports supersede each other
// and are never merged.
type FeedbackReport struct {
	OverallScore float64  `json:"overallScore"`
	Positives    []string `json:"positives"`
	Issues       []string `json:"issues"`
	Improvements []string `json:"improvements"`
	Reasoning    string   `json:"reasoning"`
}

// VisualFeedbackReport is the structured critique returned by the optional
// screenshot analysis step.
type VisualFeedbackReport struct {
	VisualScore        float64  `json:"visualScore"`
	DesignPositives    []string `json:"designPositives"`
	DesignIssues       []string `json:"designIssues"`
	DesignImprovements []string `json:"designImprovements"`
	VisualReasoning    string   `json:"visualReasoning"`
}

func (f FeedbackReport) HasIssues() bool {
	return len(f.Issues) > 0
}

// HasIssues is nil-safe so callers can check an absent visual report directly.
func (v *VisualFeedbackReport) HasIssues() bool {
	return v != nil && len(v.DesignIssues) > 0
}
