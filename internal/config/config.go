// Package config handles configuration loading for the callback gateway.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax). This allows sensitive values
// like database credentials and callback tokens to be injected at runtime.
//
// # Configuration Sections
//
//   - server: HTTP server settings (port, TLS, base path)
//   - storage: Tenant store backend (mongodb or memory)
//   - platform: Which callback dialect this deployment serves
//   - dedup: Duplicate-detection window for vendor redeliveries
//
// # Example Configuration
//
//	server:
//	  port: 8080
//	  basePath: "/callback"
//	  adminKey: ${ADMIN_KEY}
//
//	storage:
//	  mode: mongodb
//	  mongodb:
//	    uri: ${MONGODB_URI}
//	    database: wxgateway
//
//	platform:
//	  name: work-isv
//
// See [Load] for loading configuration from a file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Platform PlatformConfig `yaml:"platform"`
	Dedup    DedupConfig    `yaml:"dedup"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"basePath"`
	AdminKey string `yaml:"adminKey"` // API key for admin endpoints
	TLS      struct {
		Enabled  bool   `yaml:"enabled"`
		CertFile string `yaml:"certFile"`
		KeyFile  string `yaml:"keyFile"`
	} `yaml:"tls"`
}

// StorageConfig holds tenant store settings
type StorageConfig struct {
	// Mode selects the backend: "mongodb" or "memory".
	Mode    string        `yaml:"mode"`
	MongoDB MongoDBConfig `yaml:"mongodb"`
	// Tenants seeds the memory backend; ignored for mongodb.
	Tenants []TenantSeed `yaml:"tenants"`
}

// MongoDBConfig holds MongoDB connection settings
type MongoDBConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// TenantSeed is one statically configured tenant for the memory backend.
type TenantSeed struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Token          string `yaml:"token"`
	EncodingAESKey string `yaml:"encodingAESKey"`
	ReceiverID     string `yaml:"receiverId"`
	AgentID        int64  `yaml:"agentId"`
}

// PlatformConfig selects the callback dialect this deployment serves.
type PlatformConfig struct {
	// Name is "oa", "work", or "work-isv".
	Name string `yaml:"name"`
	// DefaultTenant answers routes that carry no tenant id segment.
	DefaultTenant string `yaml:"defaultTenant"`
}

// DedupConfig tunes the duplicate-detection window for vendor redeliveries.
type DedupConfig struct {
	Window        time.Duration `yaml:"window"`
	SweepSchedule string        `yaml:"sweepSchedule"` // cron expression
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Validate
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BasePath == "" {
		c.Server.BasePath = "/callback"
	}
	if c.Storage.Mode == "" {
		c.Storage.Mode = "memory"
	}
	if c.Storage.MongoDB.Database == "" {
		c.Storage.MongoDB.Database = "wxgateway"
	}
	if c.Platform.Name == "" {
		c.Platform.Name = "oa"
	}
	if c.Dedup.Window == 0 {
		c.Dedup.Window = 15 * time.Minute
	}
	if c.Dedup.SweepSchedule == "" {
		c.Dedup.SweepSchedule = "@every 10m"
	}
}

func (c *Config) validate() error {
	switch c.Storage.Mode {
	case "mongodb":
		if c.Storage.MongoDB.URI == "" {
			return fmt.Errorf("storage.mongodb.uri is required when mode is 'mongodb'")
		}
	case "memory":
		// Valid; tenants may also arrive via the admin API.
	default:
		return fmt.Errorf("storage.mode must be 'mongodb' or 'memory', got '%s'", c.Storage.Mode)
	}

	switch c.Platform.Name {
	case "oa", "work", "work-isv":
		// Valid dialects
	default:
		return fmt.Errorf("platform.name must be 'oa', 'work', or 'work-isv', got '%s'", c.Platform.Name)
	}

	for i, t := range c.Storage.Tenants {
		if t.ID == "" {
			return fmt.Errorf("storage.tenants[%d].id is required", i)
		}
		if t.Token == "" {
			return fmt.Errorf("storage.tenants[%d].token is required", i)
		}
		if t.EncodingAESKey != "" && len(t.EncodingAESKey) != 43 {
			return fmt.Errorf("storage.tenants[%d].encodingAESKey must be 43 characters", i)
		}
	}

	return nil
}
