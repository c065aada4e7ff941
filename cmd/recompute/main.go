// Command recompute asks a running API to rebuild every phase's budget_used.
// Run it from a scheduler; it exits 2 when only some phases were rebuilt.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"buildledger/internal/logger"
	"buildledger/internal/pipelineclient"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()
	log := logger.Get()

	cfg, err := pipelineclient.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	client := pipelineclient.New(cfg.APIURL, cfg.PipelineAPIKey, &http.Client{Timeout: cfg.RequestTimeout})

	start := time.Now()
	n, err := client.RecomputeLedger(context.Background())
	if err != nil && n == 0 {
		log.Errorw("recompute failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}

	log.Infow("recompute completed", "recomputed", n, "duration", time.Since(start).String())
	if err != nil {
		log.Warnw("recompute incomplete", "error", err)
		logger.Sync()
		os.Exit(2)
	}
}
