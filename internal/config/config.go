package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	NotificationBackendFile     = "file"
	NotificationBackendDatabase = "database"
	NotificationBackendLocal    = "local"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	// Only used by the "database" notification backend.
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	// SQLite file holding the key-value store and file metadata.
	Local struct {
		Path string `yaml:"path"`
	} `yaml:"local"`

	Notifications struct {
		Backend  string `yaml:"backend"`   // file, database, local
		FilePath string `yaml:"file_path"` // For the file backend
	} `yaml:"notifications"`

	Tasks struct {
		SeedDefaults bool `yaml:"seed_defaults"`
	} `yaml:"tasks"`

	Storage struct {
		Type      string `yaml:"type"`       // local, cloudflare_r2
		BasePath  string `yaml:"base_path"`  // For local storage
		BaseURL   string `yaml:"base_url"`   // Public URL base
		Bucket    string `yaml:"bucket"`     // For R2
		AccessKey string `yaml:"access_key"` // For R2
		SecretKey string `yaml:"secret_key"` // For R2
		Endpoint  string `yaml:"endpoint"`   // For R2 or custom S3
	} `yaml:"storage"`

	Upload struct {
		MaxSize        int64 `yaml:"max_size"`        // Max file size in bytes
		ReindexMinutes int   `yaml:"reindex_minutes"` // File index pass interval, 0 runs once at startup
	} `yaml:"upload"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

var AppConfig *Config

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.Env = "development"

	cfg.Local.Path = "flymedia.db"

	cfg.Notifications.Backend = NotificationBackendFile
	cfg.Notifications.FilePath = "notifications.json"

	cfg.Tasks.SeedDefaults = true

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 50 * 1024 * 1024 // 50MB
	cfg.Upload.ReindexMinutes = 10

	cfg.CORS.AllowedOrigins = []string{"*"}
	return &cfg
}

// LoadFile reads a YAML config on top of Default.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file %s: %w", path, err)
	}
	defer f.Close()

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv builds a config from environment variables on top of Default.
func LoadEnv() (*Config, error) {
	cfg := Default()

	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("LOCAL_DB_PATH"); v != "" {
		cfg.Local.Path = v
	}
	if v := os.Getenv("NOTIFICATIONS_BACKEND"); v != "" {
		cfg.Notifications.Backend = v
	}
	if v := os.Getenv("NOTIFICATIONS_FILE"); v != "" {
		cfg.Notifications.FilePath = v
	}
	if v := os.Getenv("TASKS_SEED_DEFAULTS"); v != "" {
		cfg.Tasks.SeedDefaults = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Storage.BasePath = v
	}
	if v := os.Getenv("UPLOAD_MAX_SIZE"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE %q: %w", v, err)
		}
		cfg.Upload.MaxSize = size
	}
	if v := os.Getenv("UPLOAD_REINDEX_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid UPLOAD_REINDEX_MINUTES %q: %w", v, err)
		}
		cfg.Upload.ReindexMinutes = minutes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that select a backend.
func (c *Config) Validate() error {
	switch c.Notifications.Backend {
	case NotificationBackendFile:
		if c.Notifications.FilePath == "" {
			return fmt.Errorf("notifications.file_path is required for the file backend")
		}
	case NotificationBackendDatabase:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.url is required for the database backend")
		}
	case NotificationBackendLocal:
	default:
		return fmt.Errorf("unknown notifications.backend %q", c.Notifications.Backend)
	}
	if c.Local.Path == "" {
		return fmt.Errorf("local.path is required")
	}
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("upload.max_size must be positive")
	}
	if c.Upload.ReindexMinutes < 0 {
		return fmt.Errorf("upload.reindex_minutes must not be negative")
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors.allowed_origins: %q needs an http or https scheme", origin)
		}
	}
	return nil
}

// LoadConfig fills AppConfig. With SERVER_ENV=test the environment is used
// instead of the YAML file.
func LoadConfig() {
	var (
		cfg *Config
		err error
	)

	if os.Getenv("SERVER_ENV") == "test" {
		log.Println("Loading configuration from environment variables (test mode)")
		cfg, err = LoadEnv()
	} else {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Printf("Loading configuration from %s", configPath)
		cfg, err = LoadFile(configPath)
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	AppConfig = cfg
}
