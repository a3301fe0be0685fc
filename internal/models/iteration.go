package models

import "time"

// Run is one full generation loop invocation.
type Run struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	DesignPrompt  string    `gorm:"type:text;not null" json:"designPrompt"`
	Provider      string    `gorm:"size:50;not null" json:"provider"`
	ModelKey      string    `gorm:"size:255" json:"model"`
	Threshold     float64   `gorm:"not null" json:"threshold"`
	MaxIterations int       `gorm:"not null" json:"maxIterations"`
	FinalScore    float64   `json:"finalScore"`
	Iterations    int       `json:"iterations"`
	ThresholdMet  bool      `json:"thresholdMet"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// IterationRecord is one generate/test/score cycle. Records are append-only
// and never mutated after creation. The structured reports are persisted as
// JSON text columns alongside the scores.
type IterationRecord struct {
	ID              uint     `gorm:"primaryKey" json:"-"`
	RunID           uint     `gorm:"index;not null" json:"-"`
	Index           int      `gorm:"column:iteration;not null" json:"index"`
	FunctionalScore float64  `gorm:"not null" json:"functionalScore"`
	VisualScore     *float64 `json:"visualScore,omitempty"`
	Degraded        bool     `json:"degraded,omitempty"`

	Feedback       FeedbackReport        `gorm:"-" json:"feedback"`
	VisualFeedback *VisualFeedbackReport `gorm:"-" json:"visualFeedback,omitempty"`

	FeedbackJSON string    `gorm:"type:text" json:"-"`
	VisualJSON   string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"-"`
}
