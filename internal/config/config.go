package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	RabbitMQ RabbitMQConfig
	Analysis AnalysisConfig
	History  HistoryConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	BodyLimit int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// QdrantConfig with an empty URL disables job recommendations.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
	RatePerSec float64
	Burst      int
	Timeout    time.Duration
}

// RabbitMQConfig with an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type AnalysisConfig struct {
	MaxResumeBytes int64
	MaxResumePages int
}

type HistoryConfig struct {
	QueueSize int
	Workers   int
}

type AuthConfig struct {
	JWTSecret       string
	ExpirationHours int
	BcryptCost      int
	AdminEmail      string
	AdminPassword   string
}

// Load reads configuration from the environment, optionally seeded by a .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "3000"),
			Env:       getEnv("ENV", "development"),
			BodyLimit: getEnvAsInt("BODY_LIMIT", 12*1024*1024),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "career_pilot"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "career_pilot_jobs"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			RatePerSec: getEnvAsFloat("LLM_RATE_PER_SEC", 2),
			Burst:      getEnvAsInt("LLM_BURST", 4),
			Timeout:    getEnvAsDuration("LLM_TIMEOUT", "90s"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "career_pilot_events"),
		},
		Analysis: AnalysisConfig{
			MaxResumeBytes: getEnvAsInt64("MAX_RESUME_BYTES", 10485760),
			MaxResumePages: getEnvAsInt("MAX_RESUME_PAGES", 20),
		},
		History: HistoryConfig{
			QueueSize: getEnvAsInt("HISTORY_QUEUE_SIZE", 100),
			Workers:   getEnvAsInt("HISTORY_WORKERS", 2),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
			BcryptCost:      getEnvAsInt("BCRYPT_COST", 12),
			AdminEmail:      getEnv("ADMIN_EMAIL", ""),
			AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		},
	}
}

// Validate rejects values the services cannot run with.
func (c *Config) Validate() error {
	if c.Analysis.MaxResumeBytes <= 0 {
		return fmt.Errorf("MAX_RESUME_BYTES must be positive, got %d", c.Analysis.MaxResumeBytes)
	}
	if c.Analysis.MaxResumePages <= 0 {
		return fmt.Errorf("MAX_RESUME_PAGES must be positive, got %d", c.Analysis.MaxResumePages)
	}
	if c.History.QueueSize <= 0 || c.History.Workers <= 0 {
		return fmt.Errorf("HISTORY_QUEUE_SIZE and HISTORY_WORKERS must be positive")
	}
	if c.Gemini.RatePerSec <= 0 || c.Gemini.Burst <= 0 {
		return fmt.Errorf("LLM_RATE_PER_SEC and LLM_BURST must be positive")
	}
	if c.Auth.BcryptCost < 10 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.Auth.BcryptCost)
	}
	if c.Auth.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.Auth.ExpirationHours)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// NewLogger builds the process logger for the given environment.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
