package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Reddit    RedditConfig    `yaml:"reddit" envconfig:"REDDIT"`
	Lexicon   LexiconConfig   `yaml:"lexicon" envconfig:"LEXICON"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration.
// Output is one of console, file or both; FilePath overrides the per-run
// timestamped log file when set.
type LoggingConfig struct {
	Level     string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output    string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath  string `yaml:"file_path" envconfig:"FILE_PATH"`
	AddSource bool   `yaml:"add_source" envconfig:"ADD_SOURCE"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against BaseDir, which defaults to the executable directory.
type PathsConfig struct {
	BaseDir     string `yaml:"base_dir" envconfig:"BASE_DIR"`
	Lexicon     string `yaml:"lexicon" envconfig:"LEXICON"`
	Credentials string `yaml:"credentials" envconfig:"CREDENTIALS"`
	Profile     string `yaml:"profile" envconfig:"PROFILE"`
	Results     string `yaml:"results" envconfig:"RESULTS"`
}

// RedditConfig controls how the daily thread is located and fetched
type RedditConfig struct {
	Subreddit   string        `yaml:"subreddit" envconfig:"SUBREDDIT" validate:"required"`
	TitleMarker string        `yaml:"title_marker" envconfig:"TITLE_MARKER" validate:"required"`
	HotLimit    int           `yaml:"hot_limit" envconfig:"HOT_LIMIT" validate:"min=1,max=100"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	TokenURL    string        `yaml:"token_url" envconfig:"TOKEN_URL" validate:"required,url"`
	APIBaseURL  string        `yaml:"api_base_url" envconfig:"API_BASE_URL" validate:"required,url"`
	UserAgent   string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// LexiconConfig names the columns read from the equities table
type LexiconConfig struct {
	NameColumn   string `yaml:"name_column" envconfig:"NAME_COLUMN" validate:"required"`
	TickerColumn string `yaml:"ticker_column" envconfig:"TICKER_COLUMN" validate:"required"`
	Sheet        string `yaml:"sheet" envconfig:"SHEET"`
}

// ReportConfig controls the exported mention report
type ReportConfig struct {
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx"`
}

// TelemetryConfig toggles run metrics and stage tracing
type TelemetryConfig struct {
	Metrics bool `yaml:"metrics" envconfig:"METRICS"`
	Tracing bool `yaml:"tracing" envconfig:"TRACING"`
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. An empty
// configFile searches the usual locations. The result is not validated;
// callers apply their overrides and then call Validate.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Unset variables leave the file and default values untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Report.Format = strings.ToLower(c.Report.Format)

	return validator.New().Struct(c)
}

// ResolvePaths builds the run's Paths from the configured base directory and
// file overrides.
func (c *Config) ResolvePaths() (*Paths, error) {
	var paths *Paths
	if c.Paths.BaseDir != "" {
		base, err := filepath.Abs(c.Paths.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve base dir: %w", err)
		}
		paths = NewPaths(base)
	} else {
		var err error
		if paths, err = GetPaths(); err != nil {
			return nil, err
		}
	}

	if c.Paths.Lexicon != "" {
		paths.LexiconFile = paths.Resolve(c.Paths.Lexicon)
	}
	if c.Paths.Credentials != "" {
		paths.CredentialsFile = paths.Resolve(c.Paths.Credentials)
	}
	if c.Paths.Profile != "" {
		paths.ProfileFile = paths.Resolve(c.Paths.Profile)
	}
	if c.Paths.Results != "" {
		paths.ResultsDir = paths.Resolve(c.Paths.Results)
		paths.MetricsFile = filepath.Join(paths.ResultsDir, DefaultMetricsFile)
	}

	return paths, nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		filepath.Join(DefaultConfigDir, "config.yaml"),
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
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Output: DefaultLogOutput,
		},
		Reddit: RedditConfig{
			Subreddit:   DefaultSubreddit,
			TitleMarker: DefaultTitleMarker,
			HotLimit:    DefaultHotLimit,
			Timeout:     DefaultHTTPTimeout,
			TokenURL:    RedditTokenURL,
			APIBaseURL:  RedditAPIBaseURL,
		},
		Lexicon: LexiconConfig{
			NameColumn:   DefaultNameColumn,
			TickerColumn: DefaultTickerColumn,
		},
		Report: ReportConfig{
			Format: ReportFormatCSV,
		},
		Telemetry: TelemetryConfig{
			Metrics: true,
		},
	}
}
