package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/pokerhall/holdem/internal/game"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains process-level settings.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings are the table parameters handed to the engine as rules.
type GameSettings struct {
	SmallBlind   int `hcl:"small_blind,optional"`
	BigBlind     int `hcl:"big_blind,optional"`
	MinPlayers   int `hcl:"min_players,optional"`
	MaxPlayers   int `hcl:"max_players,optional"`
	RoundDelayMs int `hcl:"round_delay_ms,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			SmallBlind:   5,
			BigBlind:     10,
			MinPlayers:   2,
			MaxPlayers:   8,
			RoundDelayMs: 3000,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
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
	if cfg.Game.SmallBlind == 0 {
		cfg.Game.SmallBlind = defaults.Game.SmallBlind
	}
	if cfg.Game.BigBlind == 0 {
		cfg.Game.BigBlind = defaults.Game.BigBlind
	}
	if cfg.Game.MinPlayers == 0 {
		cfg.Game.MinPlayers = defaults.Game.MinPlayers
	}
	if cfg.Game.MaxPlayers == 0 {
		cfg.Game.MaxPlayers = defaults.Game.MaxPlayers
	}
	if cfg.Game.RoundDelayMs == 0 {
		cfg.Game.RoundDelayMs = defaults.Game.RoundDelayMs
	}

	return &cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.RoundDelayMs < 0 {
		return fmt.Errorf("round delay must not be negative: %d", c.Game.RoundDelayMs)
	}
	return c.Rules().Validate()
}

// Rules converts the game settings into engine rules.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		SmallBlind: c.Game.SmallBlind,
		BigBlind:   c.Game.BigBlind,
		MinPlayers: c.Game.MinPlayers,
		MaxPlayers: c.Game.MaxPlayers,
	}
}

// RoundDelay is the pause between a round ending and the next starting.
func (c *Config) RoundDelay() time.Duration {
	return time.Duration(c.Game.RoundDelayMs) * time.Millisecond
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
