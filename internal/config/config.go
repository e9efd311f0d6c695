package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ArtifactSourceFile     = "file"
	ArtifactSourceRegistry = "registry"

	HistoryBackendBolt     = "bolt"
	HistoryBackendPostgres = "postgres"
)

type Config struct {
	Server     ServerConfig
	Artifact   ArtifactConfig
	Registry   RegistryConfig
	Prediction PredictionConfig
	History    HistoryConfig
	Database   DatabaseConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type ArtifactConfig struct {
	Source string
	Path   string
}

type RegistryConfig struct {
	URL     string
	Timeout time.Duration
}

type PredictionConfig struct {
	Currency  string
	CacheSize int
}

type HistoryConfig struct {
	Enabled  bool
	Backend  string
	BoltPath string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds a libpq style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type LoggerConfig struct {
	Level      string
	Format     string
	File       string // rotated log file written next to stdout when set
	MaxSizeMB  int
	MaxBackups int
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("ARTIFACT_SOURCE", ArtifactSourceFile)
	v.SetDefault("ARTIFACT_PATH", "artifacts/xgb_price_class_model.json")
	v.SetDefault("REGISTRY_URL", "http://localhost:8085")
	v.SetDefault("REGISTRY_TIMEOUT", "30s")
	v.SetDefault("PRICE_CURRENCY", "SEK")
	v.SetDefault("PREDICTION_CACHE_SIZE", 1024)
	v.SetDefault("HISTORY_ENABLED", false)
	v.SetDefault("HISTORY_BACKEND", HistoryBackendBolt)
	v.SetDefault("HISTORY_BOLT_PATH", "data/prediction_history.db")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_NAME", "price_tier")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)

	// Env
	v.AutomaticEnv()

	source := strings.ToLower(v.GetString("ARTIFACT_SOURCE"))
	if source != ArtifactSourceFile && source != ArtifactSourceRegistry {
		return nil, fmt.Errorf("invalid ARTIFACT_SOURCE %q: want %q or %q", source, ArtifactSourceFile, ArtifactSourceRegistry)
	}

	backend := strings.ToLower(v.GetString("HISTORY_BACKEND"))
	if backend != HistoryBackendBolt && backend != HistoryBackendPostgres {
		return nil, fmt.Errorf("invalid HISTORY_BACKEND %q: want %q or %q", backend, HistoryBackendBolt, HistoryBackendPostgres)
	}

	timeout, err := time.ParseDuration(v.GetString("REGISTRY_TIMEOUT"))
	if err != nil {
		timeout = 30 * time.Second
	}

	lifetime, err := time.ParseDuration(v.GetString("DATABASE_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               v.GetString("SERVER_HOST"),
			Port:               v.GetInt("SERVER_PORT"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Artifact: ArtifactConfig{
			Source: source,
			Path:   v.GetString("ARTIFACT_PATH"),
		},
		Registry: RegistryConfig{
			URL:     v.GetString("REGISTRY_URL"),
			Timeout: timeout,
		},
		Prediction: PredictionConfig{
			Currency:  v.GetString("PRICE_CURRENCY"),
			CacheSize: v.GetInt("PREDICTION_CACHE_SIZE"),
		},
		History: HistoryConfig{
			Enabled:  v.GetBool("HISTORY_ENABLED"),
			Backend:  backend,
			BoltPath: v.GetString("HISTORY_BOLT_PATH"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
