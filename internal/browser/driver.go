// Package browser drives a headless Chrome against the running dev server and
// records what happened. Interaction failures are observations, not errors:
// a button that cannot be clicked is evidence for the reviewer, so only a
// browser that cannot reach the page at all fails an Exercise call.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"uiloop/internal/events"
	"uiloop/internal/models"
)

const (
	navigateTimeout = 30 * time.Second
	actionTimeout   = 5 * time.Second
)

// Driver exercises a page through headless Chrome.
type Driver struct {
	headless      bool
	maxNavLinks   int
	screenshotDir string
}

func NewDriver(headless bool, maxNavLinks int, screenshotDir string) *Driver {
	return &Driver{
		headless:      headless,
		maxNavLinks:   maxNavLinks,
		screenshotDir: screenshotDir,
	}
}

// Exercise opens url, walks the test plan's scenarios, runs an accessibility
// audit, and returns everything it observed. The iteration number namespaces
// the screenshot files.
func (d *Driver) Exercise(ctx context.Context, url string, plan models.TestPlan, iteration int) (models.Observations, error) {
	obs := models.Observations{URL: url}

	if err := os.MkdirAll(d.screenshotDir, 0o755); err != nil {
		return obs, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.headless),
		chromedp.Flag("disable-gpu", true),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	navCtx, cancelNav := context.WithTimeout(browserCtx, navigateTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return obs, fmt.Errorf("failed to open %s: %w", url, err)
	}
	events.Emit(ctx, events.BrowserEvent, events.NewInfo("page loaded: "+url))

	scenarios := plan.TestScenarios
	if len(scenarios) == 0 {
		scenarios = []models.TestScenario{{
			Name:        "generic-pass",
			Description: "no scenarios supplied; exercising visible controls",
		}}
	}

	for _, scenario := range scenarios {
		obs.Scenarios = append(obs.Scenarios, d.runScenario(browserCtx, scenario, iteration))
	}

	obs.Accessibility = d.audit(browserCtx)
	obs.Notes = append(obs.Notes, d.countNotes(browserCtx)...)

	return obs, nil
}

func (d *Driver) runScenario(ctx context.Context, scenario models.TestScenario, iteration int) models.ScenarioObservation {
	so := models.ScenarioObservation{Scenario: scenario.Name}
	slug := slugify(scenario.Name)

	if path, err := d.screenshot(ctx, fmt.Sprintf("iter%02d_%s_before.png", iteration, slug)); err == nil {
		so.BeforeShot = path
	} else {
		so.Failures = append(so.Failures, "before screenshot: "+err.Error())
	}

	d.interact(ctx, &so)

	if path, err := d.screenshot(ctx, fmt.Sprintf("iter%02d_%s_after.png", iteration, slug)); err == nil {
		so.AfterShot = path
	} else {
		so.Failures = append(so.Failures, "after screenshot: "+err.Error())
	}

	return so
}

// interact performs a fixed interaction pass: fill the first text input,
// click the first enabled button, toggle checkboxes, pick a select option,
// and follow a few links. Whatever fails goes into Failures.
func (d *Driver) interact(ctx context.Context, so *models.ScenarioObservation) {
	fill := func() error {
		return d.run(ctx, chromedp.SendKeys(
			`input[type="text"], input:not([type])`, "sample text", chromedp.ByQuery))
	}
	if err := fill(); err != nil {
		so.Failures = append(so.Failures, "fill text input: "+err.Error())
	} else {
		so.Actions = append(so.Actions, "filled first text input")
	}

	if err := d.run(ctx, chromedp.Click("button:enabled", chromedp.ByQuery)); err != nil {
		so.Failures = append(so.Failures, "click button: "+err.Error())
	} else {
		so.Actions = append(so.Actions, "clicked first enabled button")
	}

	if err := d.run(ctx, chromedp.Click(`input[type="checkbox"]`, chromedp.ByQuery)); err == nil {
		so.Actions = append(so.Actions, "toggled first checkbox")
	}

	var selected bool
	if err := d.run(ctx, chromedp.Evaluate(`(() => {
		const sel = document.querySelector("select");
		if (!sel || sel.options.length < 2) return false;
		sel.selectedIndex = sel.selectedIndex === 0 ? 1 : 0;
		sel.dispatchEvent(new Event("change", { bubbles: true }));
		return true;
	})()`, &selected)); err == nil && selected {
		so.Actions = append(so.Actions, "changed select option")
	}

	d.followLinks(ctx, so)
}

// followLinks clicks up to maxNavLinks same-page anchors, returning home
// after each so scenario state stays comparable.
func (d *Driver) followLinks(ctx context.Context, so *models.ScenarioObservation) {
	var home string
	if err := d.run(ctx, chromedp.Location(&home)); err != nil {
		return
	}
	var hrefs []string
	if err := d.run(ctx, chromedp.Evaluate(
		`Array.from(document.querySelectorAll("a[href]")).map(a => a.href)`, &hrefs)); err != nil {
		return
	}
	visited := 0
	for _, href := range hrefs {
		if visited >= d.maxNavLinks {
			break
		}
		if err := d.run(ctx,
			chromedp.Navigate(href),
			chromedp.WaitReady("body"),
		); err != nil {
			so.Failures = append(so.Failures, "follow link "+href+": "+err.Error())
			continue
		}
		so.Actions = append(so.Actions, "followed link "+href)
		visited++
		if err := d.run(ctx,
			chromedp.Navigate(home),
			chromedp.WaitReady("body"),
		); err != nil {
			so.Failures = append(so.Failures, "return home: "+err.Error())
			return
		}
	}
}

type auditResult struct {
	ImagesMissingAlt   int  `json:"imagesMissingAlt"`
	HasHeadings        bool `json:"hasHeadings"`
	InputsWithoutLabel int  `json:"inputsWithoutLabel"`
}

func (d *Driver) audit(ctx context.Context) models.AccessibilityAudit {
	var res auditResult
	err := d.run(ctx, chromedp.Evaluate(`(() => {
		const imagesMissingAlt = Array.from(document.querySelectorAll("img"))
			.filter(img => !img.getAttribute("alt")).length;
		const hasHeadings = document.querySelector("h1,h2,h3,h4,h5,h6") !== null;
		const inputsWithoutLabel = Array.from(document.querySelectorAll("input,textarea,select"))
			.filter(el => {
				if (el.type === "hidden") return false;
				if (el.getAttribute("aria-label") || el.getAttribute("aria-labelledby")) return false;
				if (el.id && document.querySelector('label[for="' + el.id + '"]')) return false;
				return !el.closest("label");
			}).length;
		return { imagesMissingAlt, hasHeadings, inputsWithoutLabel };
	})()`, &res))
	if err != nil {
		events.Emit(ctx, events.BrowserEvent, events.NewWarn("accessibility audit failed: "+err.Error()))
	}
	return models.AccessibilityAudit{
		ImagesMissingAlt:   res.ImagesMissingAlt,
		HasHeadings:        res.HasHeadings,
		InputsWithoutLabel: res.InputsWithoutLabel,
	}
}

func (d *Driver) countNotes(ctx context.Context) []string {
	var counts struct {
		Buttons int `json:"buttons"`
		Inputs  int `json:"inputs"`
		Links   int `json:"links"`
	}
	if err := d.run(ctx, chromedp.Evaluate(`({
		buttons: document.querySelectorAll("button").length,
		inputs: document.querySelectorAll("input,textarea,select").length,
		links: document.querySelectorAll("a[href]").length,
	})`, &counts)); err != nil {
		return nil
	}
	return []string{fmt.Sprintf("page has %d buttons, %d inputs, %d links",
		counts.Buttons, counts.Inputs, counts.Links)}
}

func (d *Driver) screenshot(ctx context.Context, name string) (string, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return "", err
	}
	path := filepath.Join(d.screenshotDir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// run executes actions with a per-action timeout so one stuck selector
// cannot hang the whole exercise.
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	timed, cancel := context.WithTimeout(ctx, actionTimeout)
	defer cancel()
	return chromedp.Run(timed, actions...)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "scenario"
	}
	return b.String()
}
