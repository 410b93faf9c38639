package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines one table hosted by the server.
type TableConfig struct {
	Name                 string `hcl:"name,label"`
	SmallBlind           int    `hcl:"small_blind"`
	BigBlind             int    `hcl:"big_blind"`
	BuyIn                int    `hcl:"buy_in,optional"`
	ActionTimeoutSeconds int    `hcl:"action_timeout_seconds,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{
				Name:                 "main",
				SmallBlind:           10,
				BigBlind:             20,
				BuyIn:                1000,
				ActionTimeoutSeconds: 30,
			},
		},
	}
}

// LoadConfig parses an HCL config file, falling back to defaults when the
// file does not exist.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %s", path, diags.Error())
	}

	cfg := &Config{}
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %s", path, diags.Error())
	}

	defaults := DefaultConfig()
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaults.Server.Address
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = defaults.Server.LogLevel
	}
	if len(cfg.Tables) == 0 {
		cfg.Tables = defaults.Tables
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	names := make(map[string]bool)
	for _, t := range c.Tables {
		if t.Name == "" {
			return fmt.Errorf("table missing name")
		}
		if names[t.Name] {
			return fmt.Errorf("duplicate table name: %s", t.Name)
		}
		names[t.Name] = true
		if t.SmallBlind <= 0 || t.BigBlind <= t.SmallBlind {
			return fmt.Errorf("table %s: invalid blinds %d/%d", t.Name, t.SmallBlind, t.BigBlind)
		}
		if t.BuyIn < 0 {
			return fmt.Errorf("table %s: negative buy-in", t.Name)
		}
	}
	return nil
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
