package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yargevad/filepathx"

	"uiloop/internal/models"
)

// ReportService writes the final run report to disk.
type ReportService interface {
	Write(report models.RunReport) error
}

type reportService struct {
	reportPath    string
	screenshotDir string
}

func NewReportService(reportPath, screenshotDir string) ReportService {
	return &reportService{reportPath: reportPath, screenshotDir: screenshotDir}
}

func (s *reportService) Write(report models.RunReport) error {
	report.Screenshots = s.collectScreenshots()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if dir := filepath.Dir(s.reportPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(s.reportPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (s *reportService) collectScreenshots() []string {
	matches, err := filepathx.Glob(filepath.Join(s.screenshotDir, "**", "*.png"))
	if err != nil || len(matches) == 0 {
		return nil
	}
	sort.Strings(matches)
	return matches
}
