package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/youruser/coverapp/internal/layout"
)

type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Render  RenderConfig
	Photo   PhotoConfig
	Notify  NotifyConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	CORSEnabled bool
	CORSOrigins []string
}

type LoggingConfig struct {
	Level string
	File  string
}

type RenderConfig struct {
	PixelRatio      float64
	DefaultPreset   string
	DefaultTemplate string
}

type PhotoConfig struct {
	MaxBytes  int64
	CacheSize int
}

type NotifyConfig struct {
	TTL time.Duration
}

const maxPixelRatio = 4

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "release"),
			CORSEnabled: getEnvBool("CORS_ENABLED", true),
			CORSOrigins: parseCommaSeparated(getEnv("CORS_ORIGINS", "*")),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Render: RenderConfig{
			PixelRatio:      getEnvFloat("EXPORT_PIXEL_RATIO", 2),
			DefaultPreset:   getEnv("DEFAULT_PRESET", layout.Desktop.Name),
			DefaultTemplate: getEnv("DEFAULT_TEMPLATE", layout.TemplateStandard),
		},
		Photo: PhotoConfig{
			MaxBytes:  int64(getEnvInt("PHOTO_MAX_BYTES", 5<<20)),
			CacheSize: getEnvInt("PHOTO_CACHE_SIZE", 32),
		},
		Notify: NotifyConfig{
			TTL: time.Duration(getEnvInt("TOAST_TTL_SECONDS", 5)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Server.Port, 10, 16); err != nil {
		return fmt.Errorf("PORT must be a port number, got %q", c.Server.Port)
	}
	if c.Render.PixelRatio <= 0 || c.Render.PixelRatio > maxPixelRatio {
		return fmt.Errorf("EXPORT_PIXEL_RATIO must be in (0, %d], got %v", maxPixelRatio, c.Render.PixelRatio)
	}
	if _, ok := layout.TargetByName(c.Render.DefaultPreset); !ok {
		return fmt.Errorf("DEFAULT_PRESET %q is not a known preset", c.Render.DefaultPreset)
	}
	if _, ok := layout.TemplateByID(c.Render.DefaultTemplate); !ok {
		return fmt.Errorf("DEFAULT_TEMPLATE %q is not a known template", c.Render.DefaultTemplate)
	}
	if c.Photo.MaxBytes <= 0 {
		return fmt.Errorf("PHOTO_MAX_BYTES must be positive")
	}
	if c.Photo.CacheSize <= 0 {
		return fmt.Errorf("PHOTO_CACHE_SIZE must be positive")
	}
	if c.Notify.TTL <= 0 {
		return fmt.Errorf("TOAST_TTL_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
