// Gray Logic Dashboard - smart-home dashboard service
//
// graydash follows a home's entity registry and Lovelace dashboard over
// MQTT, resolves strategy dashboards, lays every view out with its layout
// engine and serves the result over HTTP and WebSocket. Entity history is
// read from InfluxDB and cached in memory or Redis.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nerrad567/gray-logic-dashboard/internal/api"
	"github.com/nerrad567/gray-logic-dashboard/internal/feed"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-dashboard/internal/store"
	"github.com/nerrad567/gray-logic-dashboard/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration and environment file paths
const (
	defaultConfigPath  = "configs/config.yaml"
	defaultEnvFilePath = ".env"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error { //nolint:gocognit // linear startup sequence
	log := logging.Default()
	log.Info("starting graydash",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	if err := loadEnvFile(getEnvFilePath()); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}

	configPath := getConfigPath()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err = logging.New(cfg.Logging, version)
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer log.Close()
	log.Info("configuration loaded", "path", configPath, "site", cfg.Site.ID)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", db.Path())
	repo := store.NewSQLiteRepository(db.DB)

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled, history endpoints unavailable")
	}

	historyManager, closeCache, err := newHistoryManager(ctx, cfg, influxClient, log)
	if err != nil {
		return fmt.Errorf("initialising history: %w", err)
	}
	defer closeCache()

	coord, err := newCoordinator(cfg, log)
	if err != nil {
		return fmt.Errorf("initialising dashboard pipeline: %w", err)
	}

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
		"topic_prefix", mqttClient.Topics().Prefix,
	)

	feedOpts := feed.Options{
		Broker:      mqttClient,
		Topics:      mqttClient.Topics(),
		Coordinator: coord,
		Store:       repo,
		Dashboard:   documentPath(cfg.Dashboard.Path),
		Debounce:    cfg.GetDebounce(),
		QoS:         byte(cfg.MQTT.QoS),
		Logger:      log,
	}
	if influxClient != nil {
		feedOpts.Recorder = influxClient
	}
	dashFeed, err := feed.New(feedOpts)
	if err != nil {
		return fmt.Errorf("creating feed: %w", err)
	}
	if restoreErr := dashFeed.Restore(ctx); restoreErr != nil {
		log.Warn("restoring dashboard from store failed", "error", restoreErr)
	}
	if coord.Current() == nil {
		coord.Rebuild()
	}
	if startErr := dashFeed.Start(); startErr != nil {
		return fmt.Errorf("starting feed: %w", startErr)
	}
	defer func() {
		log.Info("stopping feed")
		dashFeed.Stop()
	}()

	health := map[string]api.HealthChecker{
		"database": db,
		"mqtt":     mqttClient,
	}
	if influxClient != nil {
		health["influxdb"] = influxClient
	}
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Coordinator: coord,
		History:     historyManager,
		Documents:   repo,
		Dashboard:   documentPath(cfg.Dashboard.Path),
		Health:      health,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, health); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns GRAYDASH_CONFIG or the default path.
func getConfigPath() string {
	if path := os.Getenv("GRAYDASH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// getEnvFilePath returns GRAYDASH_ENV_FILE or the default path.
func getEnvFilePath() string {
	if path := os.Getenv("GRAYDASH_ENV_FILE"); path != "" {
		return path
	}
	return defaultEnvFilePath
}

// loadEnvFile exports the variables in path into the process environment
// so GRAYDASH_* overrides can live next to the binary. Variables already
// set win. A missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// loadConfig loads path, falling back to the built-in defaults when the
// file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating default config: %w", err)
	}
	return cfg, nil
}

// documentPath maps the configured dashboard url path to the key documents
// are stored and published under.
func documentPath(path string) string {
	if path == "" {
		return mqtt.DefaultDashboard
	}
	return path
}

// healthCheck verifies every component, returning the first failure.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	for name, checker := range checks {
		if err := checker.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
