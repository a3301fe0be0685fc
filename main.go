package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"uiloop/internal/browser"
	"uiloop/internal/config"
	"uiloop/internal/database"
	"uiloop/internal/events"
	"uiloop/internal/llm/client"
	"uiloop/internal/loop"
	"uiloop/internal/repositories"
	"uiloop/internal/services"
	"uiloop/internal/utils"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := run(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; a missing file is not an error worth reporting.
	_ = utils.LoadEnv()

	cfg := parseFlags(config.FromEnv())
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := events.WithSession(context.Background(), "uiloop")

	db, err := database.Init(cfg.DatabasePath)
	if err != nil {
		return err
	}
	runs := repositories.NewRunRepository(db)

	keys := services.NewKeyringService()
	apiKey := keys.APIKey(cfg.Provider)
	if apiKey == "" {
		events.Emit(ctx, events.LoopEvent, events.NewWarn(
			fmt.Sprintf("no API key found for %s; calls will fail until one is configured", cfg.Provider)))
	}

	llm, err := client.New(ctx, cfg.Provider, apiKey, cfg.Model)
	if err != nil {
		return err
	}

	artifacts, err := services.NewArtifactService(cfg.ProjectRoot, cfg.ComponentPath, cfg.ReloadDelay)
	if err != nil {
		return err
	}

	meta := loop.Meta{}
	if branch, commit, err := services.NewGitService().HeadStamp(cfg.ProjectRoot); err == nil {
		meta.GitBranch = branch
		meta.GitCommit = commit
	}

	controller := loop.NewController(
		cfg,
		services.NewGeneratorService(llm),
		services.NewPlannerService(llm),
		services.NewScorerService(llm),
		services.NewCriticService(llm),
		artifacts,
		browser.NewDriver(cfg.Headless, cfg.MaxNavLinks, cfg.ScreenshotDir),
		runs,
		services.NewReportService(cfg.ReportPath, cfg.ScreenshotDir),
		stdinConfirm,
		meta,
	)
	return controller.Run(ctx)
}

func parseFlags(cfg config.Config) config.Config {
	flag.BoolVar(&cfg.SkipGeneration, "skip-generation", cfg.SkipGeneration,
		"reuse the existing component instead of generating a new one")
	flag.BoolVar(&cfg.SkipGeneration, "s", cfg.SkipGeneration,
		"shorthand for -skip-generation")

	noHuman := !cfg.HumanInput
	flag.BoolVar(&noHuman, "no-human-input", noHuman,
		"never prompt the operator; run fully unattended")
	flag.BoolVar(&noHuman, "n", noHuman,
		"shorthand for -no-human-input")

	flag.StringVar(&cfg.Provider, "provider", cfg.Provider, "model provider: openai, anthropic or gemini")
	flag.StringVar(&cfg.Model, "model", cfg.Model, "model name")
	flag.StringVar(&cfg.AppURL, "url", cfg.AppURL, "dev server URL")
	flag.StringVar(&cfg.ProjectRoot, "project", cfg.ProjectRoot, "dev project root")
	flag.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "report output path")
	flag.Float64Var(&cfg.FeedbackThreshold, "threshold", cfg.FeedbackThreshold, "score needed to stop iterating")
	flag.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "iteration cap")
	flag.BoolVar(&cfg.VisualCritique, "visual", cfg.VisualCritique, "enable the vision critique pass")
	flag.BoolVar(&cfg.Headless, "headless", cfg.Headless, "run the browser headless")
	flag.Parse()

	cfg.HumanInput = !noHuman
	if args := flag.Args(); len(args) > 0 {
		cfg.DesignPrompt = strings.Join(args, " ")
	}
	return cfg
}

func stdinConfirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
