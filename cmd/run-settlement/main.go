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

	app := runutil.Bootstrap(runutil.ConfigPath(configPath), "run-settlement")
	defer app.Close()

	resolved, err := runutil.ResolveDate(date, "yesterday")
	if err != nil {
		log.Fatalf("run-settlement: %v", err)
	}

	ctx := context.Background()
	svc := pipeline.NewService(app.Store, app.Store, app.Config.Pipeline)

	summary, err := svc.RunSettlement(ctx, resolved)
	if err != nil {
		slog.Error("Settlement run failed", "date", resolved, "error", err)
		log.Fatalf("run-settlement: %v", err)
	}

	slog.Info("Settlement run finished",
		"date", resolved,
		"won", summary.Counts["won"],
		"lost", summary.Counts["lost"],
		"pending", summary.Counts["pending"])
	app.Notifier.SendRunSummary(ctx, "settlement", summary.String())
}
