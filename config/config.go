package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is loaded once at startup from config.yml.
type Config struct {
	Server struct {
		Port       int `yaml:"port"`
		SocketPort int `yaml:"socket_port"`
	} `yaml:"server"`

	Storage struct {
		// "file" or "postgres"
		Driver string `yaml:"driver"`
		File   struct {
			Path string `yaml:"path"`
		} `yaml:"file"`
		Postgres struct {
			Connection struct {
				Host     string `yaml:"host"`
				User     string `yaml:"username"`
				Password string `yaml:"password"`
				DBName   string `yaml:"database"`
				Port     int    `yaml:"port"`
			} `yaml:"connection"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	WhatsApp struct {
		Enabled    bool   `yaml:"enabled"`
		InstanceID string `yaml:"instance_id"`
		Token      string `yaml:"token"`
	} `yaml:"whatsapp"`

	TextGen struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"textgen"`
}

// Load parses the YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3007
	}
	if cfg.Server.SocketPort == 0 {
		cfg.Server.SocketPort = 3006
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.File.Path == "" {
		cfg.Storage.File.Path = "stockgrow_data.json"
	}
	return &cfg, nil
}

// PostgresDSN builds the pool DSN the same way the connection block is laid
// out in config.yml.
func (c *Config) PostgresDSN() string {
	conn := c.Storage.Postgres.Connection
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&pool_max_conns=50&pool_min_conns=5",
		conn.User, conn.Password, conn.Host, conn.Port, conn.DBName)
}
