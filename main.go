package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"influencer-dashboard/charts"
	"influencer-dashboard/config"
	"influencer-dashboard/server"
	"influencer-dashboard/services"
	"influencer-dashboard/snapshot"
	"influencer-dashboard/storage"
	"influencer-dashboard/utils"
)

const usage = `usage: influencer-dashboard [flags] [report|serve|export|sync|snapshot]

  report    print the dashboard for the selected countries (default)
  serve     serve the dashboard over HTTP
  export    write the selected table as CSV and XLSX plus chart PNGs
  sync      store the full normalized table in PostgreSQL
  snapshot  screenshot a running dashboard page to PNG
`

type countryList []string

func (c *countryList) String() string     { return fmt.Sprint(*c) }
func (c *countryList) Set(v string) error { *c = append(*c, v); return nil }

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerLevel(utils.ParseLevel(cfg.LogLevel))

	var countries countryList
	flag.Var(&countries, "country", "country to select (repeatable, default DEFAULT_COUNTRY)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if len(countries) == 0 {
		countries = countryList{cfg.DefaultCountry}
	}

	command := "report"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Influencer Dashboard (%s) ===", command)
	logger.Info("Config | data: %s | default country: %s | strict: %v",
		cfg.DataPath, cfg.DefaultCountry, cfg.StrictParse)

	dataset := storage.NewDataset(storage.NewLoader(cfg.DataPath, logger))
	pipeline := services.NewDefaultPipeline(dataset, logger, cfg.StrictParse, cfg.TopN, cfg.HistogramBins)

	var err error
	switch command {
	case "report":
		err = runReport(pipeline, countries)
	case "serve":
		err = runServe(ctx, cfg, pipeline, logger)
	case "export":
		err = runExport(cfg, pipeline, countries, logger)
	case "sync":
		err = runSync(cfg, pipeline, logger)
	case "snapshot":
		err = snapshot.New(cfg.ChromeBin, cfg.MaxRetries, logger).
			CaptureToFile(ctx, cfg.SnapshotURL, filepath.Join(cfg.OutputDir, "dashboard.png"))
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", command, err)
		os.Exit(1)
	}
}

func runReport(pipeline *services.Pipeline, countries []string) error {
	sel, err := pipeline.DefaultSelection(countries...)
	if err != nil {
		return err
	}
	report, err := pipeline.Report(sel)
	if err != nil {
		return err
	}
	pipeline.Insights().Print(report)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, pipeline *services.Pipeline, logger *utils.Logger) error {
	// Load eagerly so a bad data file fails at startup, not on first request.
	if _, err := pipeline.Records(); err != nil {
		return err
	}
	srv := server.New(pipeline, charts.NewRenderer(logger), cfg.DefaultCountry, logger)
	return srv.ListenAndServe(ctx, cfg.HTTPAddr)
}

func runExport(cfg *config.Config, pipeline *services.Pipeline, countries []string, logger *utils.Logger) error {
	sel, err := pipeline.DefaultSelection(countries...)
	if err != nil {
		return err
	}
	records, err := pipeline.Selected(sel)
	if err != nil {
		return err
	}

	csvWriter, err := storage.NewCSVWriter(filepath.Join(cfg.OutputDir, "influencers.csv"))
	if err != nil {
		return err
	}
	xlsxWriter, err := storage.NewXLSXWriter(filepath.Join(cfg.OutputDir, "influencers.xlsx"))
	if err != nil {
		_ = csvWriter.Close()
		return err
	}

	if err := storage.WriteAll(records, csvWriter, xlsxWriter); err != nil {
		return err
	}
	logger.Info("Exported %d records to %s", len(records), cfg.OutputDir)

	report, err := pipeline.Insights().Generate(records, sel)
	if err != nil {
		return err
	}
	pool := utils.NewWorkerPool(cfg.MaxConcurrency, 0)
	paths, err := charts.NewRenderer(logger).RenderAll(filepath.Join(cfg.OutputDir, "charts"), report, pool)
	if err != nil {
		return err
	}
	logger.Info("Rendered %d charts", len(paths))
	return nil
}

func runSync(cfg *config.Config, pipeline *services.Pipeline, logger *utils.Logger) error {
	records, err := pipeline.Records()
	if err != nil {
		return err
	}

	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), retry)
	if err != nil {
		logger.Error("Make sure PostgreSQL is running: docker compose up -d")
		return err
	}
	defer pgWriter.Close()

	if err := pgWriter.Write(records); err != nil {
		return err
	}

	stored, err := pgWriter.FetchAll()
	if err != nil {
		return err
	}
	logger.Info("Stored %d of %d records in PostgreSQL (table: influencers)", len(stored), len(records))
	return nil
}
