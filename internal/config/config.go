package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pairwork/internal/domain/matching"
)

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	AccessSecret string
}

// MatchingConfig carries the weight vector and scoring inputs. ConfigVersion
// participates in the score cache key so a weight change invalidates cached
// results without a flush.
type MatchingConfig struct {
	Weights         matching.Weights
	PrimaryLanguage string
	ConfigVersion   string
}

type CoupleConfig struct {
	ConfirmWindow time.Duration
	SweepInterval time.Duration
}

type SnapshotConfig struct {
	ProfileServiceURL  string
	JobServiceURL      string
	TaxonomyServiceURL string
	RequestTimeout     time.Duration
}

type RecommendConfig struct {
	Workers  int
	MaxLimit int
}

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Matching  MatchingConfig
	Couple    CoupleConfig
	Snapshot  SnapshotConfig
	Recommend RecommendConfig
}

// Load reads the full configuration from the environment and validates it.
// An invalid weight vector is a startup failure, never a silent re-scale.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Port:     getEnv("APP_PORT", "8080"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "pairwork"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 16)),
			MinConns:        int32(getEnvInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		},
		Matching: MatchingConfig{
			Weights:         loadWeights(),
			PrimaryLanguage: getEnv("MATCH_PRIMARY_LANGUAGE", "de"),
			ConfigVersion:   getEnv("MATCH_CONFIG_VERSION", "v1"),
		},
		Couple: CoupleConfig{
			ConfirmWindow: getEnvDuration("COUPLE_CONFIRM_HOURS", 24*time.Hour),
			SweepInterval: getEnvDuration("COUPLE_SWEEP_INTERVAL", time.Minute),
		},
		Snapshot: SnapshotConfig{
			ProfileServiceURL:  getEnv("PROFILE_SERVICE_URL", "http://localhost:8081"),
			JobServiceURL:      getEnv("JOB_SERVICE_URL", "http://localhost:8082"),
			TaxonomyServiceURL: getEnv("TAXONOMY_SERVICE_URL", "http://localhost:8083"),
			RequestTimeout:     getEnvDuration("SNAPSHOT_REQUEST_TIMEOUT", 5*time.Second),
		},
		Recommend: RecommendConfig{
			Workers:  getEnvInt("RECOMMEND_WORKERS", 8),
			MaxLimit: getEnvInt("RECOMMEND_MAX_LIMIT", 50),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Matching.Weights.Validate(); err != nil {
		return fmt.Errorf("matching weights: %w", err)
	}
	if c.Couple.ConfirmWindow <= 0 {
		return fmt.Errorf("couple confirm window must be positive, got %s", c.Couple.ConfirmWindow)
	}
	if c.Recommend.Workers <= 0 {
		return fmt.Errorf("recommendation workers must be positive, got %d", c.Recommend.Workers)
	}
	return nil
}

func loadWeights() matching.Weights {
	w := matching.DefaultWeights()
	w.Skills = getEnvFloat("MATCH_WEIGHT_SKILLS", w.Skills)
	w.Location = getEnvFloat("MATCH_WEIGHT_LOCATION", w.Location)
	w.Experience = getEnvFloat("MATCH_WEIGHT_EXPERIENCE", w.Experience)
	w.Language = getEnvFloat("MATCH_WEIGHT_LANGUAGE", w.Language)
	w.Availability = getEnvFloat("MATCH_WEIGHT_AVAILABILITY", w.Availability)
	w.Preferences = getEnvFloat("MATCH_WEIGHT_PREFERENCES", w.Preferences)
	return w
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvDuration accepts either a Go duration string ("45m") or, for the
// *_HOURS keys, a bare number of hours.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if strings.HasSuffix(key, "_HOURS") {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(n * float64(time.Hour))
		}
	}
	return fallback
}
