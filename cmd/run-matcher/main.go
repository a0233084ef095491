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
	var threshold int
	flag.StringVar(&configPath, "config", "", "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&date, "date", "", "Fixture date: YYYY-MM-DD, today, tomorrow or yesterday (default: tomorrow)")
	flag.IntVar(&threshold, "threshold", 0, "Team-name similarity threshold 0-100 (default: from config)")
	flag.Parse()

	app := runutil.Bootstrap(runutil.ConfigPath(configPath), "run-matcher")
	defer app.Close()

	resolved, err := runutil.ResolveDate(date, "tomorrow")
	if err != nil {
		log.Fatalf("run-matcher: %v", err)
	}

	cfg := app.Config.Pipeline
	if threshold > 0 {
		cfg.MatchThreshold = threshold
	}

	ctx := context.Background()
	svc := pipeline.NewService(app.Store, app.Store, cfg)

	summary, err := svc.RunMatcher(ctx, resolved)
	if err != nil {
		slog.Error("Matcher run failed", "date", resolved, "error", err)
		log.Fatalf("run-matcher: %v", err)
	}

	slog.Info("Matcher run finished", "date", resolved, "matched", summary.Counts["matched"], "skipped", len(summary.Skipped))
	app.Notifier.SendRunSummary(ctx, "matcher", summary.String())
}
