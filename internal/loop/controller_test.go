package loop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uiloop/internal/config"
	"uiloop/internal/llm/parse"
	"uiloop/internal/models"
)

type fakeGenerator struct {
	generated string
	improved  []string
	improves  int
}

func (f *fakeGenerator) Generate(ctx context.Context, design string) (string, error) {
	return f.generated, nil
}

func (f *fakeGenerator) Improve(ctx context.Context, design, code string, feedback models.FeedbackReport, visual *models.VisualFeedbackReport) (string, error) {
	f.improves++
	if len(f.improved) > 0 {
		next := f.improved[0]
		f.improved = f.improved[1:]
		return next, nil
	}
	return code + "\n// revised", nil
}

type fakePlanner struct{}

func (fakePlanner) Plan(ctx context.Context, code string) (parse.Result[models.TestPlan], error) {
	return parse.Result[models.TestPlan]{Value: parse.FallbackTestPlan()}, nil
}

type fakeScorer struct {
	scores []models.FeedbackReport
	calls  int
}

func (f *fakeScorer) Score(ctx context.Context, plan models.TestPlan, obs models.Observations, visual *models.VisualFeedbackReport) (parse.Result[models.FeedbackReport], error) {
	report := f.scores[f.calls]
	f.calls++
	return parse.Result[models.FeedbackReport]{Value: report}, nil
}

type fakeCritic struct{}

func (fakeCritic) Critique(ctx context.Context, design, screenshotPath string) parse.Result[models.VisualFeedbackReport] {
	return parse.Result[models.VisualFeedbackReport]{Value: models.VisualFeedbackReport{VisualScore: 0.7}}
}

type fakeArtifacts struct {
	written  []string
	existing string
}

func (f *fakeArtifacts) Write(code string) error {
	f.written = append(f.written, code)
	return nil
}

func (f *fakeArtifacts) Read() (string, error) { return f.existing, nil }

func (f *fakeArtifacts) Path() string { return "fake/component.jsx" }

func (f *fakeArtifacts) WaitForReload(ctx context.Context) error { return nil }

type fakeBrowser struct {
	exercises int
}

func (f *fakeBrowser) Exercise(ctx context.Context, url string, plan models.TestPlan, iteration int) (models.Observations, error) {
	f.exercises++
	return models.Observations{URL: url}, nil
}

type fakeRuns struct {
	records   []models.IterationRecord
	finalized map[string]interface{}
}

func (f *fakeRuns) CreateRun(run *models.Run) error {
	run.ID = 1
	return nil
}

func (f *fakeRuns) AppendIteration(record *models.IterationRecord) error {
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeRuns) FinalizeRun(runID uint, updates map[string]interface{}) error {
	f.finalized = updates
	return nil
}

func (f *fakeRuns) IterationsByRun(runID uint) ([]models.IterationRecord, error) {
	return f.records, nil
}

type fakeReports struct {
	report models.RunReport
	writes int
}

func (f *fakeReports) Write(report models.RunReport) error {
	f.report = report
	f.writes++
	return nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.HumanInput = false
	cfg.VisualCritique = false
	cfg.ReloadDelay = 0
	return cfg
}

func score(value float64, issues ...string) models.FeedbackReport {
	return models.FeedbackReport{OverallScore: value, Issues: issues}
}

func newTestController(cfg config.Config, gen *fakeGenerator, scorer *fakeScorer, arts *fakeArtifacts, browser *fakeBrowser, runs *fakeRuns, reports *fakeReports, confirm ConfirmFunc) *Controller {
	return NewController(cfg, gen, fakePlanner{}, scorer, fakeCritic{}, arts, browser, runs, reports, confirm, Meta{})
}

func TestRunStopsWhenThresholdMetFirstIteration(t *testing.T) {
	cfg := testConfig()
	cfg.FeedbackThreshold = 0.8
	cfg.MaxIterations = 5

	gen := &fakeGenerator{generated: "component-v1"}
	scorer := &fakeScorer{scores: []models.FeedbackReport{score(0.9)}}
	arts := &fakeArtifacts{}
	browser := &fakeBrowser{}
	runs := &fakeRuns{}
	reports := &fakeReports{}

	err := newTestController(cfg, gen, scorer, arts, browser, runs, reports, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, runs.records, 1)
	assert.Equal(t, 0, gen.improves)
	assert.Equal(t, 1, reports.writes)
	assert.True(t, reports.report.ThresholdMet)
	assert.Equal(t, "component-v1", reports.report.FinalCode)
	assert.InDelta(t, 0.9, reports.report.FinalScore, 1e-9)
}

func TestRunIteratesToCapWhenScoreStaysLow(t *testing.T) {
	cfg := testConfig()
	cfg.FeedbackThreshold = 0.8
	cfg.MaxIterations = 3

	gen := &fakeGenerator{generated: "component-v1"}
	scorer := &fakeScorer{scores: []models.FeedbackReport{
		score(0.5, "broken button"),
		score(0.5, "broken button"),
		score(0.5, "broken button"),
	}}
	arts := &fakeArtifacts{}
	browser := &fakeBrowser{}
	runs := &fakeRuns{}
	reports := &fakeReports{}

	err := newTestController(cfg, gen, scorer, arts, browser, runs, reports, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, runs.records, 3)
	assert.Equal(t, 3, browser.exercises)
	// No improvement after the final iteration.
	assert.Equal(t, 2, gen.improves)
	assert.False(t, reports.report.ThresholdMet)
	assert.Equal(t, false, runs.finalized["threshold_met"])
	assert.Equal(t, 3, runs.finalized["iterations"])
}

func TestRunWritesEveryIterationToDisk(t *testing.T) {
	cfg := testConfig()
	cfg.MaxIterations = 2

	gen := &fakeGenerator{generated: "v1", improved: []string{"v2"}}
	scorer := &fakeScorer{scores: []models.FeedbackReport{score(0.3), score(0.4)}}
	arts := &fakeArtifacts{}

	err := newTestController(cfg, gen, scorer, arts, &fakeBrowser{}, &fakeRuns{}, &fakeReports{}, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, arts.written)
}

func TestRunSkipGenerationUsesExistingComponent(t *testing.T) {
	cfg := testConfig()
	cfg.SkipGeneration = true
	cfg.MaxIterations = 1

	gen := &fakeGenerator{generated: "should-not-be-used"}
	scorer := &fakeScorer{scores: []models.FeedbackReport{score(0.9)}}
	arts := &fakeArtifacts{existing: "existing-component"}
	reports := &fakeReports{}

	err := newTestController(cfg, gen, scorer, arts, &fakeBrowser{}, &fakeRuns{}, reports, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"existing-component"}, arts.written)
	assert.Equal(t, "existing-component", reports.report.FinalCode)
}

func TestRunHumanCanKeepImprovingAboveThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.HumanInput = true
	cfg.FeedbackThreshold = 0.8
	cfg.MaxIterations = 3

	gen := &fakeGenerator{generated: "v1"}
	scorer := &fakeScorer{scores: []models.FeedbackReport{
		score(0.85, "contrast could be better"),
		score(0.95),
	}}
	runs := &fakeRuns{}
	reports := &fakeReports{}

	asked := 0
	confirm := func(question string) bool {
		asked++
		return true
	}

	err := newTestController(cfg, gen, scorer, &fakeArtifacts{}, &fakeBrowser{}, runs, reports, confirm).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, asked)
	assert.Len(t, runs.records, 2)
	assert.Equal(t, 1, gen.improves)
	assert.True(t, reports.report.ThresholdMet)
}

func TestRunHumanDecliningStopsTheLoop(t *testing.T) {
	cfg := testConfig()
	cfg.HumanInput = true
	cfg.FeedbackThreshold = 0.8
	cfg.MaxIterations = 3

	scorer := &fakeScorer{scores: []models.FeedbackReport{
		score(0.85, "minor spacing issue"),
	}}
	runs := &fakeRuns{}
	reports := &fakeReports{}

	confirm := func(question string) bool { return false }

	err := newTestController(cfg, &fakeGenerator{generated: "v1"}, scorer, &fakeArtifacts{}, &fakeBrowser{}, runs, reports, confirm).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, runs.records, 1)
	assert.True(t, reports.report.ThresholdMet)
}

func TestRunNoPromptWhenUnattended(t *testing.T) {
	cfg := testConfig()
	cfg.HumanInput = false
	cfg.FeedbackThreshold = 0.8
	cfg.MaxIterations = 3

	scorer := &fakeScorer{scores: []models.FeedbackReport{
		score(0.85, "minor spacing issue"),
	}}
	runs := &fakeRuns{}

	confirm := func(question string) bool {
		t.Fatal("confirm must not be called when human input is disabled")
		return false
	}

	err := newTestController(cfg, &fakeGenerator{generated: "v1"}, scorer, &fakeArtifacts{}, &fakeBrowser{}, runs, &fakeReports{}, confirm).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, runs.records, 1)
}
