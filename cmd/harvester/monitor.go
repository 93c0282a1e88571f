package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"console_token_harvester/internal/config"
	"console_token_harvester/internal/metrics"
	"console_token_harvester/internal/probe"
	"console_token_harvester/internal/token"
)

func newMonitorCmd(log zerolog.Logger, load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Continuously re-harvest the token and verify it against the live API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.ConsoleURL == "" {
				return fmt.Errorf("CONSOLE_URL is required")
			}
			return runMonitor(cfg, log)
		},
	}
}

func runMonitor(cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("console_url", cfg.ConsoleURL).
		Dur("interval", cfg.HarvestInterval).
		Str("metrics_addr", cfg.MetricsAddr).
		Msg("starting token monitor")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stopChan := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
		if err := metrics.StartMetricsServer(cfg.MetricsAddr); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	cache := token.NewCache(func(ctx context.Context) (string, error) {
		start := time.Now()
		tok, err := harvestToken(ctx, cfg, log)
		metrics.RecordInvokeLatency(cfg.LoginEndpointID, float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordHarvest("error")
			return "", err
		}
		metrics.RecordHarvest("success")
		return tok, nil
	}, log)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runHarvestLoop(cfg, cache, log, stopChan)
	}()

	<-sigChan
	log.Info().Msg("shutting down")
	close(stopChan)
	wg.Wait()
	return nil
}

func runHarvestLoop(cfg *config.Config, cache *token.Cache, log zerolog.Logger, stopChan <-chan struct{}) {
	ticker := time.NewTicker(cfg.HarvestInterval)
	defer ticker.Stop()

	checkToken(cfg, cache, log)

	for {
		select {
		case <-stopChan:
			log.Info().Msg("harvest loop stopped")
			return
		case <-ticker.C:
			checkToken(cfg, cache, log)
		}
	}
}

func checkToken(cfg *config.Config, cache *token.Cache, log zerolog.Logger) {
	ctx := context.Background()

	tok, err := cache.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("token harvest failed")
		return
	}
	metrics.RecordTokenTTL(cache.TTL().Seconds())

	if cfg.APIBaseURL != "" {
		res, err := probe.CheckREST(ctx, cfg.APIBaseURL, cfg.ProbePath, tok)
		if err != nil {
			metrics.RecordProbeError("rest", "request_failed")
			log.Error().Err(err).Msg("rest probe failed")
		} else {
			metrics.RecordProbeLatency("rest", res.LatencyMs)
			if !res.Authorized {
				metrics.RecordProbeError("rest", "rejected")
				log.Warn().Int("status", res.StatusCode).Msg("token rejected by API, invalidating cache")
				cache.Invalidate()
			}
		}
	}

	if cfg.WSURL != "" {
		res, err := probe.CheckWS(ctx, cfg.WSURL, tok)
		if err != nil {
			metrics.RecordProbeError("ws", "request_failed")
			log.Error().Err(err).Msg("ws probe failed")
		} else {
			metrics.RecordProbeLatency("ws", res.LatencyMs)
		}
	}
}
