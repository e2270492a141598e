package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/tracked/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "tracked.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "10s"

	// DefaultDispatchQueueSize is the capacity of the board dispatch queue.
	DefaultDispatchQueueSize = 256

	// DefaultBatchSize is the number of counters added by one batch request
	// when the request does not say.
	DefaultBatchSize = 1000

	// MaxBatchSize caps a single batch request.
	MaxBatchSize = 100_000

	// DefaultNamespace is the Prometheus namespace.
	DefaultNamespace = "tracked"

	// DefaultMetricsPath is where metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultTracerName is the OpenTelemetry tracer name.
	DefaultTracerName = "github.com/vango-dev/tracked"
)

// Board write strategies.
const (
	StrategyHelpers = "helpers"
	StrategyPlain   = "plain"
)

// Config represents the complete tracked.json configuration.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Board contains counters board configuration.
	Board BoardConfig `json:"board,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// DispatchQueueSize is the capacity of the board dispatch queue.
	DispatchQueueSize int `json:"dispatchQueueSize,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Disabled turns off runtime metrics and the metrics endpoint.
	Disabled bool `json:"disabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`

	// Path is the HTTP path metrics are served on.
	Path string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName is the name passed to the tracer provider.
	TracerName string `json:"tracerName,omitempty"`
}

// BoardConfig contains counters board settings.
type BoardConfig struct {
	// BatchSize is the default number of counters added per batch request.
	BatchSize int `json:"batchSize,omitempty"`

	// Strategy selects how the board writes its signals: "helpers" or "plain".
	Strategy string `json:"strategy,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              DefaultHost,
			Port:              DefaultPort,
			ShutdownTimeout:   DefaultShutdownTimeout,
			DispatchQueueSize: DefaultDispatchQueueSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Board: BoardConfig{
			BatchSize: DefaultBatchSize,
			Strategy:  StrategyHelpers,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for tracked.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads and validates configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("T002").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'tracked init' to write a default configuration").
				Wrap(err)
		}
		return nil, errors.New("T002").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("T002").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns the defaults otherwise.
// An empty path means the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return New(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("T002").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("T002").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.DispatchQueueSize == 0 {
		c.Server.DispatchQueueSize = DefaultDispatchQueueSize
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}

	if c.Board.BatchSize == 0 {
		c.Board.BatchSize = DefaultBatchSize
	}
	if c.Board.Strategy == "" {
		c.Board.Strategy = StrategyHelpers
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("T001").
			WithDetailf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil || d < 0 {
		return errors.New("T001").
			WithDetailf("server.shutdownTimeout %q is not a valid duration", c.Server.ShutdownTimeout).
			WithSuggestion(`Use a Go duration such as "10s"`)
	}
	if c.Server.DispatchQueueSize < 1 {
		return errors.New("T001").
			WithDetail("server.dispatchQueueSize must be at least 1")
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.New("T001").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level).
			Wrap(err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("T001").
			WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	if c.Board.BatchSize < 1 || c.Board.BatchSize > MaxBatchSize {
		return errors.New("T001").
			WithDetailf("board.batchSize must be between 1 and %d", MaxBatchSize)
	}
	if c.Board.Strategy != StrategyHelpers && c.Board.Strategy != StrategyPlain {
		return errors.New("T001").
			WithDetailf("board.strategy %q must be helpers or plain", c.Board.Strategy)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout returns the parsed shutdown timeout, or the default if it
// does not parse.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
