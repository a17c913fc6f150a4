package config

import (
	"errors"
	"fmt"
	"time"

	"grimm.is/nftjson/internal/logging"
	"grimm.is/nftjson/internal/nft"
	"grimm.is/nftjson/internal/schema"
)

// Config is the root of the configuration file.
type Config struct {
	SchemaVersion string         `hcl:"schema_version,optional" json:"schema_version,omitempty"`
	NFT           *NFTConfig     `hcl:"nft,block" json:"nft,omitempty"`
	Log           *LogConfig     `hcl:"log,block" json:"log,omitempty"`
	Decode        *DecodeConfig  `hcl:"decode,block" json:"decode,omitempty"`
	Metrics       *MetricsConfig `hcl:"metrics,block" json:"metrics,omitempty"`
}

// NFTConfig controls how the nft binary is run.
type NFTConfig struct {
	Program string   `hcl:"program,optional" json:"program,omitempty"`
	Args    []string `hcl:"args,optional" json:"args,omitempty"`
	Dir     string   `hcl:"dir,optional" json:"dir,omitempty"`

	// Namespace runs nft through "ip netns exec". It cannot be combined
	// with Args.
	Namespace string `hcl:"namespace,optional" json:"namespace,omitempty"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `hcl:"level,optional" json:"level,omitempty"`
	JSON  bool   `hcl:"json,optional" json:"json,omitempty"`
}

// DecodeConfig controls parsing of nft output.
type DecodeConfig struct {
	AllowUnknownFields bool `hcl:"allow_unknown_fields,optional" json:"allow_unknown_fields,omitempty"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Listen   string `hcl:"listen,optional" json:"listen,omitempty"`
	Interval string `hcl:"interval,optional" json:"interval,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		SchemaVersion: CurrentSchemaVersion,
		NFT:           &NFTConfig{Program: "nft"},
		Log:           &LogConfig{Level: "info"},
		Decode:        &DecodeConfig{},
		Metrics:       &MetricsConfig{Listen: ":9642", Interval: "15s"},
	}
}

// applyDefaults fills missing blocks and empty values.
func (c *Config) applyDefaults() {
	def := Default()
	if c.SchemaVersion == "" {
		c.SchemaVersion = def.SchemaVersion
	}
	if c.NFT == nil {
		c.NFT = def.NFT
	}
	if c.NFT.Program == "" {
		c.NFT.Program = def.NFT.Program
	}
	if c.Log == nil {
		c.Log = def.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Decode == nil {
		c.Decode = def.Decode
	}
	if c.Metrics == nil {
		c.Metrics = def.Metrics
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = def.Metrics.Listen
	}
	if c.Metrics.Interval == "" {
		c.Metrics.Interval = def.Metrics.Interval
	}
}

// Validate checks values that HCL decoding cannot.
func (c *Config) Validate() error {
	var errs []error
	v, err := ParseVersion(c.SchemaVersion)
	if err != nil {
		errs = append(errs, err)
	} else if !v.Supported() {
		errs = append(errs, fmt.Errorf("schema_version %s is not supported (current %s)", v, CurrentSchemaVersion))
	}
	if c.NFT != nil && c.NFT.Namespace != "" && len(c.NFT.Args) > 0 {
		errs = append(errs, errors.New("nft: namespace and args are mutually exclusive"))
	}
	if c.Log != nil {
		if _, err := logging.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log: %w", err))
		}
	}
	if c.Metrics != nil && c.Metrics.Interval != "" {
		d, err := time.ParseDuration(c.Metrics.Interval)
		if err != nil {
			errs = append(errs, fmt.Errorf("metrics: interval: %w", err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("metrics: interval must be positive, got %s", d))
		}
	}
	return errors.Join(errs...)
}

// ClientConfig converts the nft and decode blocks into a client config.
func (c *Config) ClientConfig() nft.Config {
	cfg := nft.DefaultConfig()
	if c.NFT != nil {
		if c.NFT.Program != "" {
			cfg.Program = c.NFT.Program
		}
		cfg.Args = append([]string(nil), c.NFT.Args...)
		cfg.Dir = c.NFT.Dir
		if c.NFT.Namespace != "" {
			cfg.Args = []string{"netns", "exec", c.NFT.Namespace, cfg.Program}
			cfg.Program = "ip"
		}
	}
	if c.Decode != nil {
		cfg.Decode = schema.DecodeOptions{AllowUnknownFields: c.Decode.AllowUnknownFields}
	}
	return cfg
}

// LoggingConfig converts the log block into a logger config.
func (c *Config) LoggingConfig() (logging.Config, error) {
	cfg := logging.DefaultConfig()
	if c.Log == nil {
		return cfg, nil
	}
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return cfg, err
	}
	cfg.Level = level
	cfg.JSON = c.Log.JSON
	return cfg, nil
}

// MetricsInterval returns the collector interval.
func (c *Config) MetricsInterval() (time.Duration, error) {
	if c.Metrics == nil || c.Metrics.Interval == "" {
		return 15 * time.Second, nil
	}
	return time.ParseDuration(c.Metrics.Interval)
}
