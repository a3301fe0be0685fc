package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uiloop/internal/models"
)

func TestReportWriteProducesReadableJSON(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.json")
	shotDir := filepath.Join(dir, "shots")
	require.NoError(t, os.MkdirAll(shotDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(shotDir, "iter01_pass_after.png"), []byte("png"), 0o644))

	svc := NewReportService(reportPath, shotDir)
	report := models.RunReport{
		DesignPrompt: "a task list",
		Provider:     "openai",
		Model:        "gpt-5-mini",
		Threshold:    0.8,
		FinalScore:   0.9,
		ThresholdMet: true,
		FinalCode:    "export default () => null;",
		GeneratedAt:  time.Now(),
	}
	require.NoError(t, svc.Write(report))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var got models.RunReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "a task list", got.DesignPrompt)
	assert.True(t, got.ThresholdMet)
	require.Len(t, got.Screenshots, 1)
	assert.Contains(t, got.Screenshots[0], "iter01_pass_after.png")
}

func TestReportWriteCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "nested", "out", "report.json")

	svc := NewReportService(reportPath, filepath.Join(dir, "none"))
	require.NoError(t, svc.Write(models.RunReport{DesignPrompt: "x"}))

	_, err := os.Stat(reportPath)
	assert.NoError(t, err)
}
