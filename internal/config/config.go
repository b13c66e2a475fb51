package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "custclean/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Imputer   ImputerConfig   `yaml:"imputer" envconfig:"IMPUTER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// InputConfig names the workbook to clean. The env keys avoid PATH, which
// envconfig would otherwise fall back to unprefixed.
type InputConfig struct {
	Path  string `yaml:"path" envconfig:"FILE" validate:"required"`
	Sheet string `yaml:"sheet" envconfig:"SHEET" validate:"required"`
}

// OutputConfig names the files written by a run. Empty optional paths
// disable the corresponding output.
type OutputConfig struct {
	Path        string `yaml:"path" envconfig:"FILE" validate:"required"`
	CSVPath     string `yaml:"csv_path" envconfig:"CSV_FILE"`
	CSVBOM      bool   `yaml:"csv_bom" envconfig:"CSV_BOM"`
	SummaryPath string `yaml:"summary_path" envconfig:"SUMMARY_FILE"`
}

// PipelineConfig toggles individual cleaning behaviors
type PipelineConfig struct {
	FillMissingEmployment bool    `yaml:"fill_missing_employment" envconfig:"FILL_MISSING_EMPLOYMENT"`
	UtilizationCap        float64 `yaml:"utilization_cap" envconfig:"UTILIZATION_CAP" validate:"gt=0"`
}

// ImputerConfig configures the iterative imputer and its random forest
type ImputerConfig struct {
	MaxIter         int     `yaml:"max_iter" envconfig:"MAX_ITER" validate:"min=1"`
	Tolerance       float64 `yaml:"tolerance" envconfig:"TOLERANCE" validate:"gt=0"`
	Seed            int64   `yaml:"seed" envconfig:"SEED"`
	Estimators      int     `yaml:"estimators" envconfig:"ESTIMATORS" validate:"min=1"`
	MaxDepth        int     `yaml:"max_depth" envconfig:"MAX_DEPTH" validate:"min=0"`
	MinSamplesSplit int     `yaml:"min_samples_split" envconfig:"MIN_SAMPLES_SPLIT" validate:"min=2"`
	MinSamplesLeaf  int     `yaml:"min_samples_leaf" envconfig:"MIN_SAMPLES_LEAF" validate:"min=1"`
	MaxFeatures     int     `yaml:"max_features" envconfig:"MAX_FEATURES" validate:"min=0"`
	Workers         int     `yaml:"workers" envconfig:"WORKERS" validate:"min=0"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     string `yaml:"tracing" envconfig:"TRACING" validate:"oneof=stdout none"`
	Metrics     bool   `yaml:"metrics" envconfig:"METRICS"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Overrides carries command-line values; empty fields leave the loaded
// configuration unchanged.
type Overrides struct {
	InputPath   string
	Sheet       string
	OutputPath  string
	CSVPath     string
	SummaryPath string
}

// Default returns the default configuration, which reproduces the
// behavior of a run without any configuration at all.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFilePath,
		},
		Input: InputConfig{
			Path:  DefaultInputPath,
			Sheet: DefaultSheetName,
		},
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
		Pipeline: PipelineConfig{
			FillMissingEmployment: true,
			UtilizationCap:        DefaultUtilizationCap,
		},
		Imputer: ImputerConfig{
			MaxIter:         DefaultMaxIter,
			Tolerance:       DefaultTolerance,
			Seed:            DefaultSeed,
			Estimators:      DefaultEstimators,
			MinSamplesSplit: DefaultMinSamplesSplit,
			MinSamplesLeaf:  DefaultMinSamplesLeaf,
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
			Tracing:     "none",
			Metrics:     true,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at filePath
// (or the first file found in the standard locations when filePath is
// empty) and CUSTCLEAN_* environment variables, then validates it.
func Load(filePath string) (*Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load()

	cfg := Default()

	if filePath == "" {
		filePath = findConfigFile()
	} else if _, err := os.Stat(filePath); err != nil {
		return nil, apperrors.NewConfigError("config file not readable", err).
			With("path", filePath)
	}
	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				With("path", filePath)
		}
	}

	// Only variables that are set override the file values
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile decodes a YAML file over cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the first existing standard config file, or ""
func findConfigFile() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Apply copies the non-empty overrides into the configuration and
// revalidates it.
func (c *Config) Apply(o Overrides) error {
	if o.InputPath != "" {
		c.Input.Path = o.InputPath
	}
	if o.Sheet != "" {
		c.Input.Sheet = o.Sheet
	}
	if o.OutputPath != "" {
		c.Output.Path = o.OutputPath
	}
	if o.CSVPath != "" {
		c.Output.CSVPath = o.CSVPath
	}
	if o.SummaryPath != "" {
		c.Output.SummaryPath = o.SummaryPath
	}
	return c.Validate()
}

var validate = validator.New()

// Validate checks every section of the configuration
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)

	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	if err := c.checkWrittenPaths(); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// checkWrittenPaths rejects any file a run writes that is the input
// workbook or another output of the same run.
func (c *Config) checkWrittenPaths() error {
	written := []struct{ name, path string }{
		{"output", c.Output.Path},
		{"csv output", c.Output.CSVPath},
		{"summary", c.Output.SummaryPath},
		{"metrics file", c.Telemetry.MetricsFile},
	}
	input := filepath.Clean(c.Input.Path)
	seen := make(map[string]string, len(written))
	for _, w := range written {
		if w.path == "" {
			continue
		}
		p := filepath.Clean(w.path)
		if p == input {
			return fmt.Errorf("%s path %s would overwrite the input workbook", w.name, w.path)
		}
		if other, dup := seen[p]; dup {
			return fmt.Errorf("%s path %s is also used for the %s", w.name, w.path, other)
		}
		seen[p] = w.name
	}
	return nil
}
