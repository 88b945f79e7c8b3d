package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	MetricsPort  string
	PostgresDSN  string
	KafkaBrokers []string

	AddressNamespace string
	OutboxTopic      string

	ScheduleID  string
	Distributor string

	OutboxRelayInterval   time.Duration
	ReleaseRunnerInterval time.Duration
	DriftMonitorInterval  time.Duration

	EnableReleaseRunner bool
	EnableDriftMonitor  bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "tranche"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		metricsPort = "9100"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	topic := os.Getenv("OUTBOX_TOPIC")
	if topic == "" {
		topic = "vesting.events"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		MetricsPort:  metricsPort,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		AddressNamespace: os.Getenv("ADDRESS_NAMESPACE"),
		OutboxTopic:      topic,

		ScheduleID:  os.Getenv("VESTING_SCHEDULE_ID"),
		Distributor: os.Getenv("VESTING_DISTRIBUTOR"),

		OutboxRelayInterval:   envDuration("OUTBOX_RELAY_INTERVAL", 2*time.Second),
		ReleaseRunnerInterval: envDuration("RELEASE_RUNNER_INTERVAL", time.Minute),
		DriftMonitorInterval:  envDuration("DRIFT_MONITOR_INTERVAL", 30*time.Second),

		EnableReleaseRunner: envBool("ENABLE_RELEASE_RUNNER", true),
		EnableDriftMonitor:  envBool("ENABLE_DRIFT_MONITOR", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
