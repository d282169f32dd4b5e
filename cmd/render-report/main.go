// Command render-report writes one student's participation PDF to disk.
//
//	render-report -student "Jane Doe" -out jane.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/attendance-dashboard/internal/cache"
	"github.com/stemsi/attendance-dashboard/internal/chart"
	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/stemsi/attendance-dashboard/internal/handler"
	"github.com/stemsi/attendance-dashboard/internal/logger"
	"github.com/stemsi/attendance-dashboard/internal/report"
	"github.com/stemsi/attendance-dashboard/internal/repository"
	"github.com/stemsi/attendance-dashboard/internal/service"
)

func main() {
	cfg := config.Load()

	student := flag.String("student", "", "student name as written in the workbook (required)")
	out := flag.String("out", "", "output PDF path (default <student>_participation_report.pdf)")
	dataFile := flag.String("data", cfg.DataFile, "workbook path or directory to search")
	sheet := flag.String("sheet", cfg.DataSheet, "sheet name (default first sheet)")
	flag.Parse()

	// Logs go to stderr so the summary line on stdout stays scriptable.
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if *student == "" {
		fmt.Fprintln(os.Stderr, "render-report: -student is required")
		flag.Usage()
		os.Exit(2)
	}
	if *out == "" {
		*out = handler.ReportFilename(*student)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	renderer, err := chart.NewRenderer(cfg.Theme)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare chart renderer")
	}

	// One-shot run: the memory store only dedupes the single load.
	datasets := service.NewDatasetService(
		repository.NewWorkbookRepository(*dataFile, *sheet, log),
		cache.NewMemoryStore(cfg.CacheTTL),
		log,
	)
	reports := service.NewReportService(datasets, renderer, report.NewBuilder(cfg.Theme), cfg.DashboardTitle, log)

	pdf, err := reports.StudentReport(ctx, *student)
	if err != nil {
		log.Fatal().Err(err).Str("student", *student).Msg("Failed to render report")
	}

	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("Failed to write report")
	}

	fmt.Printf("Wrote %s (%d bytes)\n", *out, len(pdf))
}
