// Domovoice - Alexa Smart Home bridge for Domoticz
//
// This is the main entry point for the Domovoice bridge. It accepts Alexa
// Smart Home v3 directive envelopes over HTTP, translates them into
// Domoticz JSON API calls, and answers with protocol response envelopes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashdene/domovoice/internal/alexa"
	"github.com/ashdene/domovoice/internal/api"
	"github.com/ashdene/domovoice/internal/domoticz"
	"github.com/ashdene/domovoice/internal/infrastructure/config"
	"github.com/ashdene/domovoice/internal/infrastructure/influxdb"
	"github.com/ashdene/domovoice/internal/infrastructure/logging"
	"github.com/ashdene/domovoice/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// initialLoadTimeout bounds the startup device cache warm-up.
const initialLoadTimeout = 15 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Domovoice",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Set up the Domoticz backend
	backendCfg := domoticz.Config{
		URL:                 cfg.Domoticz.URL,
		Username:            cfg.Domoticz.Username,
		Password:            cfg.Domoticz.Password,
		Timeout:             cfg.GetDomoticzTimeout(),
		InsecureTLS:         cfg.Domoticz.InsecureTLS,
		IncludeScenesGroups: cfg.Domoticz.IncludeScenesGroups,
		ManufacturerName:    cfg.Alexa.ManufacturerName,
	}
	backend := domoticz.NewHandler(backendCfg, domoticz.NewClient(backendCfg))
	backend.SetLogger(log)

	// Warm the device cache. Failure is not fatal: Domoticz may come up
	// later, directives fetch devices lazily.
	loadCtx, loadCancel := context.WithTimeout(ctx, initialLoadTimeout)
	if err := backend.LoadDevices(loadCtx); err != nil {
		log.Warn("initial device load failed", "error", err)
	}
	loadCancel()

	// Directive router
	router := alexa.NewRouter(backend)
	router.SetLogger(log)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		// Proactive reporting: Domoticz device updates arrive on its MQTT
		// output topic and are republished as retained change reports.
		if err := backend.SubscribeDeviceEvents(mqttClient); err != nil {
			return fmt.Errorf("subscribing to device events: %w", err)
		}
		log.Info("device event feed subscribed", "topic", "domoticz/out")
	} else {
		log.Info("MQTT disabled, change reports will not be published")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:    cfg.API,
		Logger:    log,
		Router:    router,
		MQTT:      mqttClient,
		Telemetry: influxClient,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify all connections are healthy
	if err := healthCheck(ctx, apiServer, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)

	log.Info("Domovoice stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses DOMOVOICE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("DOMOVOICE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// Optional components are skipped when not configured.
func healthCheck(ctx context.Context, apiServer *api.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := apiServer.HealthCheck(checkCtx); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(checkCtx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(checkCtx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
