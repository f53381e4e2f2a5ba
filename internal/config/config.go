package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Pipeline PipelineConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// PipelineConfig holds extraction pipeline tunables.
type PipelineConfig struct {
	Concurrency   int   `mapstructure:"concurrency"`
	MaxSentences  int   `mapstructure:"max_sentences"`
	MaxChars      int   `mapstructure:"max_chars"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TRACE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "trace")
	v.SetDefault("db.password", "trace_secret")
	v.SetDefault("db.name", "trace_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Pipeline defaults
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.max_sentences", 3)
	v.SetDefault("pipeline.max_chars", 300)
	v.SetDefault("pipeline.max_file_size_mb", 50)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "TRACE_SERVER_PORT",
		"server.read_timeout":       "TRACE_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "TRACE_SERVER_WRITE_TIMEOUT",
		"server.environment":        "TRACE_SERVER_ENVIRONMENT",
		"db.host":                   "TRACE_DB_HOST",
		"db.port":                   "TRACE_DB_PORT",
		"db.user":                   "TRACE_DB_USER",
		"db.password":               "TRACE_DB_PASSWORD",
		"db.name":                   "TRACE_DB_NAME",
		"db.sslmode":                "TRACE_DB_SSLMODE",
		"db.max_open":               "TRACE_DB_MAX_OPEN",
		"db.max_idle":               "TRACE_DB_MAX_IDLE",
		"pipeline.concurrency":      "TRACE_PIPELINE_CONCURRENCY",
		"pipeline.max_sentences":    "TRACE_PIPELINE_MAX_SENTENCES",
		"pipeline.max_chars":        "TRACE_PIPELINE_MAX_CHARS",
		"pipeline.max_file_size_mb": "TRACE_PIPELINE_MAX_FILE_SIZE_MB",
		"cors.allowed_origins":      "TRACE_CORS_ALLOWED_ORIGINS",
		"log.level":                 "TRACE_LOG_LEVEL",
		"log.format":                "TRACE_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TRACE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TRACE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Pipeline = PipelineConfig{
		Concurrency:   v.GetInt("pipeline.concurrency"),
		MaxSentences:  v.GetInt("pipeline.max_sentences"),
		MaxChars:      v.GetInt("pipeline.max_chars"),
		MaxFileSizeMB: v.GetInt64("pipeline.max_file_size_mb"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	if cfg.Pipeline.Concurrency <= 0 {
		return nil, fmt.Errorf("config: pipeline concurrency must be positive, got %d", cfg.Pipeline.Concurrency)
	}
	return cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
