package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/types"
)

// EnvPrefix is the prefix of environment variables read into Options
const EnvPrefix = "imgcrop"

// Config holds the application configuration
type Config struct {
	Input     string             `json:"input"`
	Output    string             `json:"output"`
	Margins   geometry.Margins   `json:"margins"`
	Size      *geometry.SizeSpec `json:"size,omitempty"`
	KeepRatio bool               `json:"keep_ratio"`
	Options   Options            `json:"options"`
}

// Options holds runtime settings that do not affect geometry
type Options struct {
	Workers     int           `json:"workers" envconfig:"WORKERS"`
	Quality     int           `json:"quality" envconfig:"QUALITY"`
	Lossless    bool          `json:"lossless" envconfig:"LOSSLESS"`
	Strict      bool          `json:"strict" envconfig:"STRICT"`
	FileTimeout time.Duration `json:"file_timeout" envconfig:"FILE_TIMEOUT"`
	Debug       bool          `json:"debug" envconfig:"DEBUG"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Options: Options{
			Workers: 4,
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file on top of the defaults
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", types.ErrConfig, err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file: %v", types.ErrConfig, err)
	}

	return config, nil
}

// LoadEnv overrides Options with IMGCROP_* environment variables that are set
func (c *Config) LoadEnv() error {
	if err := envconfig.Process(EnvPrefix, &c.Options); err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfig, err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: input directory is required", types.ErrConfig)
	}

	if c.Output == "" {
		return fmt.Errorf("%w: output directory is required", types.ErrConfig)
	}

	if err := c.Margins.Validate(); err != nil {
		return err
	}

	if c.Size != nil {
		if err := c.Size.Validate(); err != nil {
			return err
		}
	}

	if c.Options.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive", types.ErrConfig)
	}

	if c.Options.Quality < 1 || c.Options.Quality > 100 {
		return fmt.Errorf("%w: quality must be between 1 and 100", types.ErrConfig)
	}

	if c.Options.FileTimeout < 0 {
		return fmt.Errorf("%w: file timeout must not be negative", types.ErrConfig)
	}

	return nil
}

// GeometryOptions returns the view of the configuration used to resolve transforms
func (c *Config) GeometryOptions() geometry.Options {
	return geometry.Options{
		Margins:   c.Margins,
		Size:      c.Size,
		KeepRatio: c.KeepRatio,
	}
}
