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
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()

	app := runutil.Bootstrap(runutil.ConfigPath(configPath), "train-filter")
	defer app.Close()

	ctx := context.Background()
	svc := pipeline.NewService(app.Store, app.Store, app.Config.Pipeline)

	summary, err := svc.TrainFilter(ctx)
	if err != nil {
		slog.Error("Filter training failed", "error", err)
		log.Fatalf("train-filter: %v", err)
	}

	slog.Info("Filter training finished",
		"history_rows", summary.Counts["history_rows"],
		"models_trained", summary.Counts["models_trained"])
	app.Notifier.SendRunSummary(ctx, "train-filter", summary.String())
}
