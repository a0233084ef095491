package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/kmuriithi/betpipe/internal/pipeline"
	"github.com/kmuriithi/betpipe/internal/pkg/runutil"
)

func main() {
	var configPath, date string
	flag.StringVar(&configPath, "config", "", "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&date, "date", "", "Fixture date: YYYY-MM-DD, today, tomorrow or yesterday (default: yesterday)")
	flag.Parse()

	app := runutil.Bootstrap(runutil.ConfigPath(configPath), "merge-results")
	defer app.Close()

	resolved, err := runutil.ResolveDate(date, "yesterday")
	if err != nil {
		log.Fatalf("merge-results: %v", err)
	}

	ctx := context.Background()
	svc := pipeline.NewService(app.Store, app.Store, app.Config.Pipeline)

	summary, err := svc.MergeResults(ctx, resolved)
	if err != nil {
		slog.Error("Result merge failed", "date", resolved, "error", err)
		log.Fatalf("merge-results: %v", err)
	}

	slog.Info("Result merge finished", "date", resolved, "merged", summary.Counts["merged"])
	app.Notifier.SendRunSummary(ctx, "merge-results", summary.String())
}
