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
	flag.StringVar(&date, "date", "", "Fixture date: YYYY-MM-DD, today, tomorrow or yesterday (default: tomorrow)")
	flag.Parse()

	app := runutil.Bootstrap(runutil.ConfigPath(configPath), "run-filter")
	defer app.Close()

	resolved, err := runutil.ResolveDate(date, "tomorrow")
	if err != nil {
		log.Fatalf("run-filter: %v", err)
	}

	ctx := context.Background()
	svc := pipeline.NewService(app.Store, app.Store, app.Config.Pipeline)

	summary, err := svc.RunFilter(ctx, resolved)
	if err != nil {
		slog.Error("Filter run failed", "date", resolved, "error", err)
		log.Fatalf("run-filter: %v", err)
	}

	slog.Info("Filter run finished",
		"date", resolved,
		"selected", summary.Counts["selected"],
		"rejected", summary.Counts["rejected"])
	app.Notifier.SendRunSummary(ctx, "filter", summary.String())
}
