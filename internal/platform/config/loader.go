package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "smartface-server-go/internal/platform/errors"
)

const (
	defaultConfigPath = ".config.yaml"
	configPathEnv     = "SMARTFACE_CONFIG"
)

// Loader reads configuration from a yaml file layered over the defaults,
// with secrets pulled from the environment.
type Loader struct {
	useDotEnv bool
	path      string
}

func NewLoader() *Loader {
	return &Loader{useDotEnv: true}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file location (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Load builds the effective configuration: defaults, then the yaml file if
// one exists, then environment overrides for credentials.
func (l *Loader) Load() (*Config, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using process environment")
		}
	}

	cfg := DefaultConfig()

	path := l.path
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "load",
				fmt.Sprintf("parse %s", path), err)
		}
	case os.IsNotExist(err):
		// Defaults only. Credentials may still arrive via environment.
	default:
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "load",
			fmt.Sprintf("read %s", path), err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.NLP.Embedding.APIKey == "" {
			cfg.NLP.Embedding.APIKey = key
		}
		if cfg.ASR.APIKey == "" {
			cfg.ASR.APIKey = key
		}
	}
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		cfg.Skills.Weather.APIKey = key
	}
	if city := os.Getenv("DEFAULT_WEATHER_CITY"); city != "" {
		cfg.Skills.Weather.DefaultCity = city
	}
}

// Validate rejects configurations the pipeline cannot run with.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return platformerrors.New(platformerrors.KindConfig, "validate",
			fmt.Sprintf("invalid server port: %d", cfg.Server.Port))
	}
	if cfg.Web.Enabled && (cfg.Web.Port <= 0 || cfg.Web.Port > 65535) {
		return platformerrors.New(platformerrors.KindConfig, "validate",
			fmt.Sprintf("invalid web port: %d", cfg.Web.Port))
	}
	if cfg.Audio.SampleRate <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "validate",
			fmt.Sprintf("invalid sample rate: %d", cfg.Audio.SampleRate))
	}
	if cfg.Audio.FrameSize <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "validate",
			fmt.Sprintf("invalid frame size: %d", cfg.Audio.FrameSize))
	}
	if cfg.Audio.ListenTimeout <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "validate",
			"listen timeout must be positive")
	}
	if cfg.Audio.SilenceWindow <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "validate",
			"silence window must be positive")
	}
	if cfg.NLP.ConfidenceThreshold < 0 || cfg.NLP.ConfidenceThreshold > 1 {
		return platformerrors.New(platformerrors.KindConfig, "validate",
			fmt.Sprintf("confidence threshold out of range: %f", cfg.NLP.ConfidenceThreshold))
	}
	return nil
}
