package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/medtrack/bp-monitor/internal/logger"
)

type Config struct {
	HTTPAddr   string
	AdminsFile string
	DB         DBConfig
	Session    SessionConfig
	Logger     LoggerConfig
}

type DBConfig struct {
	// Driver selects the storage engine: "postgres" or "sqlite".
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

type SessionConfig struct {
	// Backend selects the session store: "memory" or "redis".
	Backend   string
	RedisAddr string
	// TTLMinutes bounds a redis-backed session's lifetime. Ignored by the
	// in-memory store, which lives and dies with the process.
	TTLMinutes int
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:   getEnvOrDefault("HTTP_ADDR", ":8080"),
		AdminsFile: getEnvOrDefault("ADMINS_FILE", "administrators.json"),
		DB: DBConfig{
			Driver:     strings.ToLower(getEnvOrDefault("DB_DRIVER", "sqlite")),
			Host:       getEnvOrDefault("DB_HOST", "localhost"),
			Port:       getEnvOrDefault("DB_PORT", "5432"),
			User:       getEnvOrDefault("DB_USER", "postgres"),
			Password:   getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:     getEnvOrDefault("DB_NAME", "bp_monitor"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "blood_pressure.db"),
		},
		Session: SessionConfig{
			Backend:    strings.ToLower(getEnvOrDefault("SESSION_BACKEND", "memory")),
			RedisAddr:  getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			TTLMinutes: 24 * 60,
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	switch cfg.DB.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	switch cfg.Session.Backend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unsupported SESSION_BACKEND %q", cfg.Session.Backend)
	}

	return cfg, nil
}
