package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment override, e.g. STOCKPREP_JOIN_WORKERS.
const EnvPrefix = "STOCKPREP"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Join      JoinConfig      `yaml:"join" envconfig:"JOIN"`
	Preview   PreviewConfig   `yaml:"preview" envconfig:"PREVIEW"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig names the two source tables.
type InputConfig struct {
	Prices     string `yaml:"prices" envconfig:"PRICES" validate:"required"`
	Sentiments string `yaml:"sentiments" envconfig:"SENTIMENTS" validate:"required"`
}

// OutputConfig controls where the exported tables land.
type OutputConfig struct {
	Dir             string `yaml:"dir" envconfig:"DIR" validate:"required"`
	XLSX            bool   `yaml:"xlsx" envconfig:"XLSX"`
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// JoinConfig sets the fan-out degree of the join. Zero means GOMAXPROCS.
type JoinConfig struct {
	Workers int `yaml:"workers" envconfig:"WORKERS" validate:"gte=0"`
}

// PreviewConfig sizes the joined-row sample printed after a run.
type PreviewConfig struct {
	Rows   int `yaml:"rows" envconfig:"ROWS" validate:"gte=0"`
	PerRow int `yaml:"per_row" envconfig:"PER_ROW" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=none prometheus"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// EffectiveWorkers resolves the configured worker count, falling back to
// the platform-reported parallelism.
func (j JoinConfig) EffectiveWorkers() int {
	if j.Workers > 0 {
		return j.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Load builds the configuration from defaults, an optional YAML file and
// STOCKPREP_* environment variables, in increasing order of precedence.
// An empty path falls back to the well-known locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable keep their file or default value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks struct constraints and normalizes logging settings.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)

	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when logging.output is %q", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"stockprep.yaml",
		"configs/stockprep.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Prices:     DefaultPricesFile,
			Sentiments: DefaultSentimentsFile,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Preview: PreviewConfig{
			Rows:   DefaultPreviewRows,
			PerRow: DefaultPreviewPerRow,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/stockprep.log",
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			Environment:    "development",
		},
	}
}
