package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/kmuriithi/betpipe/internal/pipeline"
	"github.com/kmuriithi/betpipe/internal/pkg/runutil"
	"github.com/kmuriithi/betpipe/internal/tickets"
)

func main() {
	var configPath, date string
	var dryRun bool
	flag.StringVar(&configPath, "config", "", "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&date, "date", "", "Fixture date: YYYY-MM-DD, today, tomorrow or yesterday (default: tomorrow)")
	flag.BoolVar(&dryRun, "dry-run", true, "Compose and log tickets without placing them")
	flag.Parse()

	app := runutil.Bootstrap(runutil.ConfigPath(configPath), "run-composer")
	defer app.Close()

	resolved, err := runutil.ResolveDate(date, "tomorrow")
	if err != nil {
		log.Fatalf("run-composer: %v", err)
	}

	// Only the dry-run agent ships with the pipeline. A live execution agent
	// is a separate deployment wired in here.
	var agent tickets.ExecutionAgent = &tickets.DryRunAgent{}
	if !dryRun {
		slog.Warn("No live execution agent configured, falling back to dry run")
	}

	ctx := context.Background()
	svc := pipeline.NewService(app.Store, app.Store, app.Config.Pipeline)

	summary, err := svc.RunComposer(ctx, resolved, agent)
	if err != nil {
		slog.Error("Composer run failed", "date", resolved, "error", err)
		log.Fatalf("run-composer: %v", err)
	}

	slog.Info("Composer run finished", "date", resolved, "tickets", summary.Counts["tickets"], "dry_run", dryRun)
	app.Notifier.SendRunSummary(ctx, "composer", summary.String())
}
