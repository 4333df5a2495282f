package config

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Extract   ExtractConfig
	DuckDB    DuckDBConfig
	Sales     SalesConfig
	Directory DirectoryConfig
	Weather   WeatherConfig
	Report    ReportConfig
	Env       string
}

type ExtractConfig struct {
	Backoff BackoffConfig
}

// BackoffConfig configures the retryablehttp client. RetryMax defaults to 0:
// the pipeline makes no automatic retries unless an operator opts in.
type BackoffConfig struct {
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
	RetryMax     int           `mapstructure:"retry_max"`
}

type DuckDBConfig struct {
	Path string `mapstructure:"path"`
}

type SalesConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

type DirectoryConfig struct {
	URL string `mapstructure:"url"`
}

type WeatherConfig struct {
	URL   string `mapstructure:"url"`
	Units string `mapstructure:"units"`
}

type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// NewConfig loads the configuration from the provided base config reader
// and merges it with the environment-specific configuration.
func NewConfig(baseConfigReader io.Reader, envConfigReader io.Reader, env string) (*Config, error) {
	if env == "" { // Use the provided 'env' or default to "dev"
		env = "dev"
	}

	viper.SetConfigType("yaml")

	// Read the base configuration
	if err := viper.ReadConfig(baseConfigReader); err != nil {
		return nil, fmt.Errorf("error reading base config: %w", err)
	}

	// Merge with environment-specific configuration (only if provided)
	if envConfigReader != nil {
		if err := viper.MergeConfig(envConfigReader); err != nil {
			log.Printf("Error merging environment-specific config: %s", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Set the environment directly
	config.Env = env

	return &config, nil
}
