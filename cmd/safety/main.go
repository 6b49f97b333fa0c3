// Command safety analyses aviation safety report PDFs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/safety-analyzer/internal/adapters/driven/ai"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driven/config/file"
	csvexport "github.com/custodia-labs/safety-analyzer/internal/adapters/driven/export/csv"
	pdfexport "github.com/custodia-labs/safety-analyzer/internal/adapters/driven/export/pdf"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driven/extract/pdf"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/safety-analyzer/internal/adapters/driving/cli"
	"github.com/custodia-labs/safety-analyzer/internal/core/services"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataDir, err := dataDir()
	if err != nil {
		return fail(err)
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return fail(fmt.Errorf("opening config: %w", err))
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fail(fmt.Errorf("loading settings: %w", err))
	}

	aiServices := ai.Initialise(*settings, false)
	defer aiServices.Close()
	for _, w := range aiServices.Warnings {
		logger.Debug("%s", w)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fail(fmt.Errorf("opening report store: %w", err))
	}
	defer store.Close()

	prompts, err := file.NewPromptStore(filepath.Join(dataDir, "prompts"))
	if err != nil {
		return fail(fmt.Errorf("loading prompts: %w", err))
	}

	if err := pdf.CheckAvailable(); err != nil {
		logger.Debug("%v\n%s", err, pdf.InstallInstructions())
	}

	reportService := services.NewReportService(store.ReportStore(), aiServices.EmbeddingService)
	analysisService := services.NewAnalysisService(
		pdf.New(), aiServices.LLMService, reportService, prompts, settings.Analysis,
	)
	similarityService := services.NewSimilarityService(
		store.ReportStore(),
		aiServices.EmbeddingService,
		services.NewReranker(aiServices.LLMService, prompts),
		settings.Analysis,
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Analysis:       analysisService,
		Reports:        reportService,
		Similarity:     similarityService,
		Classification: services.NewClassificationService(aiServices.LLMService, prompts),
		Export:         services.NewExportService(pdfexport.New(), csvexport.New()),
		Settings:       settingsService,
	})

	// cobra has already printed the error.
	return cli.Execute(ctx)
}

// dataDir returns SAFETY_DATA_DIR or ~/.safety-analyzer.
func dataDir() (string, error) {
	if dir := os.Getenv("SAFETY_DATA_DIR"); dir != "" {
		return dir, nil
	}
	return file.DefaultDir()
}

func fail(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
