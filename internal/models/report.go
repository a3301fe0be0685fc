package models

import "time"

// RunReport is the final JSON artifact written when a loop terminates. It
// snapshots the full iteration history and the final component code.
type RunReport struct {
	DesignPrompt  string            `json:"designPrompt"`
	Provider      string            `json:"provider"`
	Model         string            `json:"model"`
	Threshold     float64           `json:"threshold"`
	MaxIterations int               `json:"maxIterations"`
	ThresholdMet  bool              `json:"thresholdMet"`
	FinalScore    float64           `json:"finalScore"`
	GitBranch     string            `json:"gitBranch,omitempty"`
	GitCommit     string            `json:"gitCommit,omitempty"`
	Iterations    []IterationRecord `json:"iterations"`
	FinalCode     string            `json:"finalCode"`
	Screenshots   []string          `json:"screenshots,omitempty"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}
