package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EndpointAuto makes the app look the prediction service up over mDNS.
const EndpointAuto = "auto"

// Error policies applied when a prediction request fails.
const (
	PolicyClear = "clear" // drop the previous result and show the error
	PolicyKeep  = "keep"  // keep the previous result, show the error as a notice
)

// Config holds application configuration.
type Config struct {
	Endpoint         string        `mapstructure:"endpoint"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	DiscoveryTimeout time.Duration `mapstructure:"discovery_timeout"`
	ErrorPolicy      string        `mapstructure:"error_policy"`
	StrokeWidth      float64       `mapstructure:"stroke_width"`
	LogLevel         string        `mapstructure:"log_level"`
}

// Load reads configuration from file and env. Env var overrides use prefix DIGITBOARD_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("endpoint", "http://localhost:8000")
	v.SetDefault("request_timeout", time.Duration(0))
	v.SetDefault("discovery_timeout", 2*time.Second)
	v.SetDefault("error_policy", PolicyKeep)
	v.SetDefault("stroke_width", 20.0)
	v.SetDefault("log_level", "info")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("DIGITBOARD_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "digitboard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DIGITBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing file is fine unless one was asked for explicitly
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the rest of the app cannot work with.
func (c Config) Validate() error {
	switch c.ErrorPolicy {
	case PolicyClear, PolicyKeep:
	default:
		return errors.Errorf("error_policy must be %q or %q, got %q", PolicyClear, PolicyKeep, c.ErrorPolicy)
	}
	if c.StrokeWidth <= 0 {
		return errors.Errorf("stroke_width must be positive, got %v", c.StrokeWidth)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout must not be negative")
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is empty")
	}
	return nil
}

// KeepOnError reports whether a failed request leaves the last result on screen.
func (c Config) KeepOnError() bool { return c.ErrorPolicy == PolicyKeep }
