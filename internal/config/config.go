package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gallery backends
const (
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ScheduleConfig holds the scheduled generation settings
type ScheduleConfig struct {
	Spec    string
	Prompts []string
	Model   string
}

// Config holds all configuration for the application
type Config struct {
	BaseURL        string
	HTTPTimeout    time.Duration
	BatchSize      int
	DefaultModel   string
	StylesPath     string
	GalleryBackend string
	GalleryDir     string
	GalleryKey     string
	DownloadDir    string
	ServerAddr     string
	AllowedOrigins []string
	LogLevel       string
	Schedule       ScheduleConfig
	DB             DBConfig
}

// Load loads the configuration from environment variables, reading a .env
// file first when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{
		BaseURL:        envOr("POLLINATIONS_BASE_URL", "https://image.pollinations.ai/prompt"),
		HTTPTimeout:    envSeconds("HTTP_TIMEOUT", 120*time.Second),
		BatchSize:      envInt("BATCH_SIZE", 2),
		DefaultModel:   envOr("DEFAULT_MODEL", "photorealistic"),
		StylesPath:     os.Getenv("STYLES_PATH"),
		GalleryBackend: envOr("GALLERY_BACKEND", BackendBadger),
		GalleryDir:     os.Getenv("GALLERY_DIR"),
		GalleryKey:     envOr("GALLERY_KEY", "dreamator-gallery"),
		DownloadDir:    envOr("DOWNLOAD_DIR", "."),
		ServerAddr:     envOr("SERVER_ADDR", ":8080"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS"), ","),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		Schedule: ScheduleConfig{
			Spec:    envOr("SCHEDULE_SPEC", "0 0 * * * *"),
			Prompts: splitList(os.Getenv("SCHEDULE_PROMPTS"), "|"),
			Model:   envOr("SCHEDULE_MODEL", "balanced"),
		},
	}

	if config.GalleryDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		config.GalleryDir = filepath.Join(home, ".local", "share", "dreamator", "gallery")
	}

	// Load database configuration
	config.DB = DBConfig{
		Host:            os.Getenv("DB_HOST"),
		Port:            envInt("DB_PORT", 5432),
		User:            os.Getenv("DB_USER"),
		Password:        os.Getenv("DB_PASSWORD"),
		Database:        os.Getenv("DB_NAME"),
		SSLMode:         envOr("DB_SSL_MODE", "disable"),
		MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 5),
		MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: envSeconds("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}

	switch c.GalleryBackend {
	case BackendBadger, BackendMemory:
	case BackendPostgres:
		if c.DB.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.DB.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
		if c.DB.Database == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	default:
		return fmt.Errorf("unknown GALLERY_BACKEND %q", c.GalleryBackend)
	}

	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return time.Duration(v) * time.Second
	}
	return def
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
