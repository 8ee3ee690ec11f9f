package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig
	Bus     BusConfig
	GUI     GUIConfig
	Logging LogConfig
}

// ServerConfig holds the HTTP/websocket server configuration. The GUI
// websocket, the resource file server and the status endpoints all share
// this listener.
type ServerConfig struct {
	Host string `envconfig:"GUI_HOST" yaml:"host" default:"0.0.0.0"`
	Port int    `envconfig:"GUI_PORT" yaml:"port" default:"18181"`
}

// BusConfig holds the core messagebus connection configuration.
type BusConfig struct {
	Host  string `envconfig:"BUS_HOST" yaml:"host" default:"127.0.0.1"`
	Port  int    `envconfig:"BUS_PORT" yaml:"port" default:"8181"`
	Route string `envconfig:"BUS_ROUTE" yaml:"route" default:"/core"`
}

// GUIConfig holds display-protocol behavior configuration.
type GUIConfig struct {
	Route            string `envconfig:"GUI_WS_ROUTE" yaml:"route" default:"/gui"`
	IdleDisplaySkill string `envconfig:"GUI_IDLE_SKILL" yaml:"idle_display_skill"`
	Extension        string `envconfig:"GUI_EXTENSION" yaml:"extension" default:"generic"`
	DefaultFramework string `envconfig:"GUI_FRAMEWORK" yaml:"default_framework" default:"qt5"`
	FileServer       bool   `envconfig:"GUI_FILE_SERVER" yaml:"file_server" default:"false"`
	ServerPath       string `envconfig:"GUI_SERVER_PATH" yaml:"server_path"`
	SystemResources  string `envconfig:"GUI_SYSTEM_RES" yaml:"system_resources"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" default:"info"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" default:"false"`
}

// Load loads configuration from environment variables and defaults,
// optionally overlaid with a YAML file. File values win: the file is the
// device's deployed configuration, env vars and struct defaults are the
// baseline.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration or falls back to defaults.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 18181},
		Bus:    BusConfig{Host: "127.0.0.1", Port: 8181, Route: "/core"},
		GUI: GUIConfig{
			Route:            "/gui",
			Extension:        "generic",
			DefaultFramework: "qt5",
		},
		Logging: LogConfig{Level: "info"},
	}
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
