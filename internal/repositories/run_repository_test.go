package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uiloop/internal/database"
	"uiloop/internal/models"
)

func newTestRepo(t *testing.T) RunRepository {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewRunRepository(db)
}

func TestRunLifecycle(t *testing.T) {
	repo := newTestRepo(t)

	run := &models.Run{
		DesignPrompt:  "a task list",
		Provider:      "openai",
		ModelKey:      "gpt-5-mini",
		Threshold:     0.8,
		MaxIterations: 5,
	}
	require.NoError(t, repo.CreateRun(run))
	require.NotZero(t, run.ID)

	visual := 0.7
	require.NoError(t, repo.AppendIteration(&models.IterationRecord{
		RunID:           run.ID,
		Index:           1,
		FunctionalScore: 0.5,
		Feedback: models.FeedbackReport{
			OverallScore: 0.5,
			Issues:       []string{"button does nothing"},
		},
		VisualScore: &visual,
		VisualFeedback: &models.VisualFeedbackReport{
			VisualScore:  0.7,
			DesignIssues: []string{"cramped layout"},
		},
	}))
	require.NoError(t, repo.AppendIteration(&models.IterationRecord{
		RunID:           run.ID,
		Index:           2,
		FunctionalScore: 0.9,
		Feedback:        models.FeedbackReport{OverallScore: 0.9},
	}))

	require.NoError(t, repo.FinalizeRun(run.ID, map[string]interface{}{
		"final_score":   0.9,
		"iterations":    2,
		"threshold_met": true,
	}))

	records, err := repo.IterationsByRun(run.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].Index)
	assert.Equal(t, []string{"button does nothing"}, records[0].Feedback.Issues)
	require.NotNil(t, records[0].VisualFeedback)
	assert.Equal(t, []string{"cramped layout"}, records[0].VisualFeedback.DesignIssues)

	assert.Equal(t, 2, records[1].Index)
	assert.Nil(t, records[1].VisualFeedback)
	assert.InDelta(t, 0.9, records[1].FunctionalScore, 1e-9)
}

func TestIterationsByRunIsScopedToRun(t *testing.T) {
	repo := newTestRepo(t)

	first := &models.Run{DesignPrompt: "one"}
	second := &models.Run{DesignPrompt: "two"}
	require.NoError(t, repo.CreateRun(first))
	require.NoError(t, repo.CreateRun(second))

	require.NoError(t, repo.AppendIteration(&models.IterationRecord{RunID: first.ID, Index: 1}))
	require.NoError(t, repo.AppendIteration(&models.IterationRecord{RunID: second.ID, Index: 1}))
	require.NoError(t, repo.AppendIteration(&models.IterationRecord{RunID: second.ID, Index: 2}))

	records, err := repo.IterationsByRun(second.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
