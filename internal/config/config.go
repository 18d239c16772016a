package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port             string   `yaml:"port" env:"SERVER_PORT"`
		Mode             string   `yaml:"mode" env:"SERVER_MODE"`
		StoragePath      string   `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		UploadsURLPrefix string   `yaml:"uploads_url_prefix" env:"SERVER_UPLOADS_URL_PREFIX"`
		CORSOrigins      []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
		ShutdownTimeout  string   `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsPath  string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Uploads struct {
		MaxSizeBytes int64    `yaml:"max_size_bytes" env:"UPLOADS_MAX_SIZE_BYTES"`
		AllowedTypes []string `yaml:"allowed_types" env:"UPLOADS_ALLOWED_TYPES"`
	} `yaml:"uploads"`

	Display struct {
		AnonymousLabel string `yaml:"anonymous_label" env:"DISPLAY_ANONYMOUS_LABEL"`
	} `yaml:"display"`

	Seed struct {
		Enabled         bool   `yaml:"enabled" env:"SEED_ENABLED"`
		TeacherEmail    string `yaml:"teacher_email" env:"SEED_TEACHER_EMAIL"`
		TeacherPassword string `yaml:"teacher_password" env:"SEED_TEACHER_PASSWORD"`
		TeacherName     string `yaml:"teacher_name" env:"SEED_TEACHER_NAME"`
		LectureName     string `yaml:"lecture_name" env:"SEED_LECTURE_NAME"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory, when present, is loaded into the
// environment first; variables already set are left alone.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./uploads"
	config.Server.UploadsURLPrefix = "/uploads"
	config.Server.ShutdownTimeout = "10s"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "classqa"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsPath = "migrations"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "classqa"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Upload defaults
	config.Uploads.MaxSizeBytes = 5 << 20
	config.Uploads.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	config.Display.AnonymousLabel = "匿名"

	config.Seed.TeacherName = "Demo Teacher"
	config.Seed.LectureName = "Algorithms"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid server shutdown timeout format: %w", err)
	}

	if config.Server.StoragePath == "" {
		return fmt.Errorf("server storage path is required")
	}

	if config.Uploads.MaxSizeBytes <= 0 {
		return fmt.Errorf("uploads max size must be positive")
	}

	if len(config.Uploads.AllowedTypes) == 0 {
		return fmt.Errorf("at least one allowed upload type is required")
	}

	if config.Seed.Enabled && (config.Seed.TeacherEmail == "" || config.Seed.TeacherPassword == "") {
		return fmt.Errorf("seed teacher email and password are required when seeding is enabled")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return dsn.String()
}
