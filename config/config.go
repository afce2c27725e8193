package config

import (
	"fmt"
	"os"

	"github.com/rustyeddy/pipengine/logger"
	"github.com/rustyeddy/pipengine/metatrader"
	"github.com/rustyeddy/pipengine/pipeline"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvAPIKey  = "METATRADER_API_KEY"
	EnvBaseURL = "METATRADER_BASE_URL"
)

// Config represents the complete pipengine configuration
type Config struct {
	Source     SourceConfig      `yaml:"source"`
	MetaTrader metatrader.Config `yaml:"metatrader"`
	Pipeline   PipelineConfig    `yaml:"pipeline"`
	Log        logger.Config     `yaml:"log"`
}

// SourceConfig says where bars come from: a CSV file, or MetaTrader when
// File is empty.
type SourceConfig struct {
	File      string `yaml:"file,omitempty"`
	Symbol    string `yaml:"symbol,omitempty"`
	Timeframe string `yaml:"timeframe,omitempty"`
	Count     int    `yaml:"count,omitempty"`
}

// PipelineConfig lists the indicators to compute and how to run them.
type PipelineConfig struct {
	Parallel        bool              `yaml:"parallel"`
	ContinueOnError bool              `yaml:"continue_on_error"`
	Indicators      []IndicatorConfig `yaml:"indicators"`
}

// IndicatorConfig is one pipeline request. Params stays raw until the
// registry decodes it into the indicator's parameter struct.
type IndicatorConfig struct {
	Name   string     `yaml:"name"`
	As     string     `yaml:"as,omitempty"`
	Params *yaml.Node `yaml:"params,omitempty"`
}

// LoadFromFile loads and validates a YAML configuration file. JSON files
// load too, since JSON is valid YAML.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides MetaTrader settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.MetaTrader.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.MetaTrader.BaseURL = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Source.File == "" && c.Source.Symbol == "" {
		return fmt.Errorf("source.file or source.symbol is required")
	}
	if c.Source.Timeframe != "" && !metatrader.Timeframe(c.Source.Timeframe).Valid() {
		return fmt.Errorf("source.timeframe %q is not supported", c.Source.Timeframe)
	}
	if c.Source.Count < 0 {
		return fmt.Errorf("source.count cannot be negative")
	}
	if c.MetaTrader.Timeout < 0 {
		return fmt.Errorf("metatrader.timeout cannot be negative")
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	if len(c.Pipeline.Indicators) == 0 {
		return fmt.Errorf("pipeline.indicators must list at least one indicator")
	}
	for i, ind := range c.Pipeline.Indicators {
		if ind.Name == "" {
			return fmt.Errorf("pipeline.indicators[%d].name is required", i)
		}
	}
	return nil
}

// Requests decodes the configured indicators against reg. Unknown names and
// unknown or invalid parameters fail here, before any bars are loaded.
func (c *Config) Requests(reg *pipeline.Registry) ([]pipeline.Request, error) {
	reqs := make([]pipeline.Request, 0, len(c.Pipeline.Indicators))
	for i, ind := range c.Pipeline.Indicators {
		params, err := reg.Decode(ind.Name, ind.Params)
		if err != nil {
			return nil, fmt.Errorf("pipeline.indicators[%d]: %w", i, err)
		}
		reqs = append(reqs, pipeline.Request{Name: ind.Name, As: ind.As, Params: params})
	}
	return reqs, nil
}

// PipelineOptions returns the run options selected by the config.
func (c *Config) PipelineOptions() []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithParallel(c.Pipeline.Parallel),
		pipeline.WithContinueOnError(c.Pipeline.ContinueOnError),
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			File:      "bars.csv",
			Symbol:    "XAUUSD",
			Timeframe: string(metatrader.M1),
			Count:     500,
		},
		MetaTrader: metatrader.Config{
			BaseURL: metatrader.DefaultBaseURL,
			Timeout: metatrader.DefaultTimeout,
		},
		Pipeline: PipelineConfig{
			Indicators: []IndicatorConfig{
				{Name: pipeline.EMA, As: "ema_21", Params: params(map[string]any{"period": 21})},
				{Name: pipeline.ATR, Params: params(map[string]any{"period": 14, "method": "RMA"})},
				{Name: pipeline.ImpulseMACD},
				{Name: pipeline.ZeroLagMACD},
				{Name: pipeline.FractalStops, Params: params(map[string]any{"left_range": 2, "right_range": 2})},
			},
		},
		Log: logger.Config{Level: "info"},
	}
}

func params(v map[string]any) *yaml.Node {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		panic(err)
	}
	return &n
}
