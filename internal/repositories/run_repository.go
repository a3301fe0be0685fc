package repositories

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"uiloop/internal/models"
)

// RunRepository persists runs and their iteration history. Iterations are
// append-only; a run row is finalized once when the loop ends.
type RunRepository interface {
	CreateRun(run *models.Run) error
	AppendIteration(record *models.IterationRecord) error
	FinalizeRun(runID uint, updates map[string]interface{}) error
	IterationsByRun(runID uint) ([]models.IterationRecord, error)
}

type runRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) CreateRun(run *models.Run) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *runRepository) AppendIteration(record *models.IterationRecord) error {
	feedbackJSON, err := json.Marshal(record.Feedback)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}
	record.FeedbackJSON = string(feedbackJSON)

	if record.VisualFeedback != nil {
		visualJSON, err := json.Marshal(record.VisualFeedback)
		if err != nil {
			return fmt.Errorf("failed to marshal visual feedback: %w", err)
		}
		record.VisualJSON = string(visualJSON)
	}

	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to append iteration: %w", err)
	}
	return nil
}

func (r *runRepository) FinalizeRun(runID uint, updates map[string]interface{}) error {
	if err := r.db.Model(&models.Run{}).Where("id = ?", runID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}
	return nil
}

func (r *runRepository) IterationsByRun(runID uint) ([]models.IterationRecord, error) {
	var records []models.IterationRecord
	if err := r.db.Where("run_id = ?", runID).Order("iteration asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load iterations: %w", err)
	}
	for i := range records {
		if records[i].FeedbackJSON != "" {
			if err := json.Unmarshal([]byte(records[i].FeedbackJSON), &records[i].Feedback); err != nil {
				return nil, fmt.Errorf("failed to unmarshal feedback: %w", err)
			}
		}
		if records[i].VisualJSON != "" {
			var visual models.VisualFeedbackReport
			if err := json.Unmarshal([]byte(records[i].VisualJSON), &visual); err != nil {
				return nil, fmt.Errorf("failed to unmarshal visual feedback: %w", err)
			}
			records[i].VisualFeedback = &visual
		}
	}
	return records, nil
}
