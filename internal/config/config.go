// Package config loads the server's key/value configuration: bind
// address, port, lobby count, and the ambient knobs (log level,
// timeouts, admin console) a deployable server needs around the core
// fields.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bounds enforced on load; anything outside these falls back to Default().
const (
	MinLobbyCount = 1
	MaxLobbyCount = 1000
	MinPort       = 1
	MaxPort       = 65535
)

// Server holds all configuration for the game server.
type Server struct {
	// Core.
	BindIP     string `yaml:"bind_ip"`
	Port       int    `yaml:"port"`
	LobbyCount int    `yaml:"lobby_count"`

	// Ambient.
	LogLevel     string `yaml:"log_level"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`

	// Admin console.
	AdminEnabled bool   `yaml:"admin_enabled"`
	AdminBindIP  string `yaml:"admin_bind_ip"`
	AdminPort    int    `yaml:"admin_port"`

	// Match history sink.
	HistoryFile string `yaml:"history_file"` // empty = in-memory only
}

// Default returns Server with the compiled-in defaults used as a
// fallback for missing or invalid fields.
func Default() Server {
	return Server{
		BindIP:       "0.0.0.0",
		Port:         4500,
		LobbyCount:   8,
		LogLevel:     "info",
		ReadTimeout:  120,
		WriteTimeout: 5,
		AdminEnabled: false,
		AdminBindIP:  "127.0.0.1",
		AdminPort:    4501,
	}
}

// Load reads a YAML config file, falling back to Default() for any field
// that is absent, invalid, or out of bounds. A missing file is not an
// error — it simply yields the defaults.
func Load(path string) (Server, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyBounds()
	return cfg, nil
}

// applyBounds resets any field outside its documented range back to the
// compiled-in default, rather than failing the whole load.
func (c *Server) applyBounds() {
	def := Default()

	if c.LobbyCount < MinLobbyCount || c.LobbyCount > MaxLobbyCount {
		c.LobbyCount = def.LobbyCount
	}
	if c.Port < MinPort || c.Port > MaxPort {
		c.Port = def.Port
	}
	if c.BindIP == "" {
		c.BindIP = def.BindIP
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.AdminBindIP == "" {
		c.AdminBindIP = def.AdminBindIP
	}
	if c.AdminPort < MinPort || c.AdminPort > MaxPort {
		c.AdminPort = def.AdminPort
	}
}

// Addr returns the "ip:port" the game listener should bind.
func (c Server) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindIP, c.Port)
}

// AdminAddr returns the "ip:port" the admin console should bind.
func (c Server) AdminAddr() string {
	return fmt.Sprintf("%s:%d", c.AdminBindIP, c.AdminPort)
}
