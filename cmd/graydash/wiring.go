package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/history"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-dashboard/internal/lovelace"
	"github.com/nerrad567/gray-logic-dashboard/internal/pipeline"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
	"github.com/nerrad567/gray-logic-dashboard/internal/strategy"
)

// newCoordinator builds the dashboard pipeline from config. A configured
// native dashboard file is loaded and installed before the first build.
func newCoordinator(cfg *config.Config, log *logging.Logger) (*pipeline.Coordinator, error) {
	visibility := registry.VisibilityRules{
		HiddenDomains:   cfg.Strategy.HiddenDomains,
		HiddenPlatforms: cfg.Strategy.HiddenPlatforms,
	}

	resolver := strategy.NewResolver(strategy.Options{
		DomainOrder: cfg.Strategy.DomainOrder,
		Visibility:  visibility,
	})
	resolver.SetLogger(log)

	parser := lovelace.New()
	parser.SetLogger(log)

	coord := pipeline.New(pipeline.Options{
		Columns:          cfg.Dashboard.DefaultColumns,
		Width:            float64(cfg.Dashboard.DefaultWidth),
		Layout:           pipeline.LayoutParams{Spacing: float64(cfg.Dashboard.Spacing)},
		FallbackStrategy: cfg.Dashboard.FallbackStrategy,
		Visibility:       visibility,
		Resolver:         resolver,
		Parser:           parser,
	})
	coord.SetLogger(log)

	if cfg.Dashboard.ConfigFile != "" {
		native, err := dashboard.LoadConfigFile(cfg.Dashboard.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("loading native dashboard: %w", err)
		}
		coord.SetNativeConfig(native)
		log.Info("native dashboard loaded",
			"path", cfg.Dashboard.ConfigFile, "sections", len(native.Sections))
	}
	return coord, nil
}

// newHistoryManager wires the history cache backend and InfluxDB source.
// Without InfluxDB the manager has no source and every query reports
// history.ErrNoSource. The returned func releases the cache backend.
func newHistoryManager(ctx context.Context, cfg *config.Config, influxClient *influxdb.Client, log *logging.Logger) (*history.Manager, func(), error) {
	var (
		kv      history.KV
		release = func() {}
	)

	hc := cfg.History
	switch hc.Cache {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: hc.RedisAddr, DB: hc.RedisDB})
		redisKV := history.NewRedisKV(client)
		if err := redisKV.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", hc.RedisAddr, err)
		}
		kv = redisKV
		release = func() {
			if err := client.Close(); err != nil {
				log.Error("error closing redis", "error", err)
			}
		}
		log.Info("history cache connected", "backend", "redis", "addr", hc.RedisAddr)
	default:
		kv = history.NewMemoryKV()
		log.Info("history cache ready", "backend", "memory")
	}

	var source history.Source
	if influxClient != nil {
		source = history.NewInfluxSource(influxClient)
	}

	manager := history.NewManager(source, kv, history.Options{
		TTL:       cfg.GetHistoryTTL(),
		MaxPoints: hc.MaxPoints,
	})
	manager.SetLogger(log)
	return manager, release, nil
}
