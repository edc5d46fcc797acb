// Package config loads sectormatch configuration from TOML files and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/pelletier/go-toml/v2"
)

// DefaultCandidates are broad-market ETFs comparable to a total-market index fund.
var DefaultCandidates = []string{"VTI", "SCHB", "ITOT", "VOO"}

type Config struct {
	Ranking RankingConfig `toml:"ranking"`
	Source  SourceConfig  `toml:"source"`
	Server  ServerConfig  `toml:"server"`
	MCP     MCPConfig     `toml:"mcp"`
	Logging LoggingConfig `toml:"logging"`
}

type RankingConfig struct {
	Candidates   []string `toml:"candidates"`
	K            int      `toml:"k"`             // results returned when the caller does not ask for a count
	Concurrency  int      `toml:"concurrency"`   // candidate fetch workers; 1 = sequential
	FetchTimeout string   `toml:"fetch_timeout"` // per-ticker fetch timeout, e.g. "10s"
}

type SourceConfig struct {
	Kind       SourceKind  `toml:"kind"`        // "static", "eodhd" or "sql"
	StaticFile string      `toml:"static_file"` // TOML fixture for the static source
	DSN        string      `toml:"dsn"`         // postgres:// URL or sqlite path for the sql source
	EODHD      EODHDConfig `toml:"eodhd"`
}

type EODHDConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	Exchange  string `toml:"exchange"`
	RateLimit int    `toml:"rate_limit"` // requests per second
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type MCPConfig struct {
	Name string `toml:"name"`
}

type LoggingConfig struct {
	Level      string `toml:"level"` // "debug", "info", "warn", "error"
	TimeFormat string `toml:"time_format"`
	File       string `toml:"file"` // optional log file; the only writer used by the MCP binary
}

func NewDefaultConfig() *Config {
	return &Config{
		Ranking: RankingConfig{
			Candidates:   append([]string(nil), DefaultCandidates...),
			K:            2,
			Concurrency:  1,
			FetchTimeout: "10s",
		},
		Source: SourceConfig{
			Kind:       SourceStatic,
			StaticFile: "data/sectors.toml",
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				Exchange:  "US",
				RateLimit: 10,
			},
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8000,
		},
		MCP: MCPConfig{
			Name: "sectormatch",
		},
		Logging: LoggingConfig{
			Level:      "info",
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files. Empty paths are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SECTORMATCH_CANDIDATES"); v != "" {
		cfg.Ranking.Candidates = strings.Split(v, ",")
	}
	if v := os.Getenv("SECTORMATCH_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.K = k
		}
	}
	if v := os.Getenv("SECTORMATCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.Concurrency = n
		}
	}
	if v := os.Getenv("SECTORMATCH_FETCH_TIMEOUT"); v != "" {
		cfg.Ranking.FetchTimeout = v
	}

	if v := os.Getenv("SECTORMATCH_SOURCE"); v != "" {
		if k, ok := ParseSourceKind(v); ok {
			cfg.Source.Kind = k
		}
	}
	if v := os.Getenv("SECTORMATCH_STATIC_FILE"); v != "" {
		cfg.Source.StaticFile = v
	}
	if v := os.Getenv("SECTORMATCH_DSN"); v != "" {
		cfg.Source.DSN = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		cfg.Source.EODHD.APIKey = v
	}

	if v := os.Getenv("SECTORMATCH_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SECTORMATCH_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}

	if v := os.Getenv("SECTORMATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SECTORMATCH_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

// Validate normalizes candidate tickers and checks values that would make ranking impossible.
func (c *Config) Validate() error {
	c.Ranking.Candidates = core.NormalizeTickers(c.Ranking.Candidates)

	if c.Ranking.K < 0 {
		return fmt.Errorf("%w: ranking.k must not be negative", core.ErrInvalidConfig)
	}
	if _, err := c.Ranking.Timeout(); err != nil {
		return err
	}
	if c.Source.Kind.RequiresNetwork() && c.Source.EODHD.APIKey == "" {
		return fmt.Errorf("%w: source.eodhd.api_key is required for the eodhd source", core.ErrInvalidConfig)
	}
	return nil
}

// Timeout parses FetchTimeout. An empty value disables the per-fetch timeout.
func (r RankingConfig) Timeout() (time.Duration, error) {
	if r.FetchTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: ranking.fetch_timeout: %v", core.ErrInvalidConfig, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: ranking.fetch_timeout must not be negative", core.ErrInvalidConfig)
	}
	return d, nil
}

// Addr returns host:port for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultConfigFile is used when SECTORMATCH_CONFIG is unset and the file exists.
const DefaultConfigFile = "sectormatch.toml"

// ConfigPath returns the config file to load, or "" to run on defaults.
func ConfigPath() string {
	if v := os.Getenv("SECTORMATCH_CONFIG"); v != "" {
		return v
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}
