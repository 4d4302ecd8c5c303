// Package config loads bookbrief settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bookbrief/internal/summary"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     Server     `mapstructure:"server"`
	Catalog    Catalog    `mapstructure:"catalog"`
	Generation Generation `mapstructure:"generation"`
	Log        Log        `mapstructure:"log"`
}

// Server holds HTTP settings
type Server struct {
	Port           string        `mapstructure:"port"`
	StaticDir      string        `mapstructure:"static_dir"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Catalog holds book catalog settings
type Catalog struct {
	Backend    string        `mapstructure:"backend"`
	Strategy   string        `mapstructure:"strategy"`
	Threshold  float64       `mapstructure:"threshold"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
	APIKey     string        `mapstructure:"api_key"`
}

// Generation holds LLM provider settings and retry bounds
type Generation struct {
	Provider           string  `mapstructure:"provider"`
	Model              string  `mapstructure:"model"`
	APIKey             string  `mapstructure:"api_key"`
	BaseURL            string  `mapstructure:"base_url"`
	Output             string  `mapstructure:"output"`
	Temperature        float64 `mapstructure:"temperature"`
	MaxOutputTokens    int     `mapstructure:"max_output_tokens"`
	ParseRetries       int     `mapstructure:"parse_retries"`
	ContinuationRounds int     `mapstructure:"continuation_rounds"`
	DefaultCount       int     `mapstructure:"default_count"`
	MaxCount           int     `mapstructure:"max_count"`
	AnnotateShortfall  bool    `mapstructure:"annotate_shortfall"`
}

// Log holds logging settings
type Log struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8888")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("server.request_timeout", 2*time.Minute)

	v.SetDefault("catalog.backend", "googlebooks")
	v.SetDefault("catalog.strategy", "fuzzy")
	v.SetDefault("catalog.threshold", 0.45)
	v.SetDefault("catalog.max_results", 10)
	v.SetDefault("catalog.timeout", 10*time.Second)
	v.SetDefault("catalog.api_key", "")

	v.SetDefault("generation.provider", "gemini")
	v.SetDefault("generation.model", "")
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.base_url", "")
	v.SetDefault("generation.output", "schema")
	v.SetDefault("generation.temperature", 0.0)
	v.SetDefault("generation.max_output_tokens", 4096)
	v.SetDefault("generation.parse_retries", 2)
	v.SetDefault("generation.continuation_rounds", 3)
	v.SetDefault("generation.default_count", 5)
	v.SetDefault("generation.max_count", 70)
	v.SetDefault("generation.annotate_shortfall", true)

	v.SetDefault("log.level", "info")
}

// BindEnv maps BOOKBRIEF_SECTION_KEY variables onto section.key
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("BOOKBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("generation.provider", "BOOKBRIEF_GENERATION_PROVIDER", "SUMMARY_PROVIDER")
}

// Load reads the config file (if any) and unmarshals v into a Config.
// cfgFile may be empty, in which case ./bookbrief.yaml is used when present.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("bookbrief")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyProviderEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a request
func (c *Config) Validate() error {
	if c.Catalog.Threshold < 0 || c.Catalog.Threshold > 1 {
		return fmt.Errorf("catalog.threshold must be between 0 and 1, got %v", c.Catalog.Threshold)
	}
	if c.Generation.MaxCount < 1 {
		return fmt.Errorf("generation.max_count must be at least 1, got %d", c.Generation.MaxCount)
	}
	if c.Generation.DefaultCount < 1 || c.Generation.DefaultCount > c.Generation.MaxCount {
		return fmt.Errorf("generation.default_count must be between 1 and %d, got %d", c.Generation.MaxCount, c.Generation.DefaultCount)
	}
	if c.Generation.MaxCount > summary.MaxSentences {
		return fmt.Errorf("generation.max_count must be at most %d, got %d", summary.MaxSentences, c.Generation.MaxCount)
	}
	if c.Generation.ParseRetries < 0 || c.Generation.ParseRetries > summary.MaxParseRetries {
		return fmt.Errorf("generation.parse_retries must be between 0 and %d, got %d", summary.MaxParseRetries, c.Generation.ParseRetries)
	}
	if c.Generation.ContinuationRounds < 0 || c.Generation.ContinuationRounds > summary.MaxContinuationRounds {
		return fmt.Errorf("generation.continuation_rounds must be between 0 and %d, got %d", summary.MaxContinuationRounds, c.Generation.ContinuationRounds)
	}
	if c.Generation.Temperature != 0 {
		return fmt.Errorf("generation.temperature must be 0, got %v", c.Generation.Temperature)
	}
	return nil
}
