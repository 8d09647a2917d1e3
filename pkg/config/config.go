package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// LLMConfig holds the language-model settings used by the extraction service
type LLMConfig struct {
	APIKey    string
	ProxyURL  string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// RedisConfig holds the optional Redis connection used for wizard sessions and usage counters
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig holds object storage settings for uploaded files
type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// AgentConfig holds agent chat limits
type AgentConfig struct {
	DailyLimit int
}

// NotifyConfig holds the email relay endpoint for interest notifications
type NotifyConfig struct {
	RelayURL string
	To       string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	LLM         LLMConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Agent       AgentConfig
	Notify      NotifyConfig
}

// Load loads configuration from .env (optional) and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: getEnv("SERVICE_NAME", "marketplace-service"),
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "marketplace"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", ""),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "marketplace"),
		},
		LLM: LLMConfig{
			APIKey:    getEnv("ANTHROPIC_API_KEY", ""),
			ProxyURL:  getEnv("LLM_PROXY_URL", ""),
			Model:     getEnv("LLM_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens: getEnvAsInt("LLM_MAX_TOKENS", 1024),
			Timeout:   getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "me-south-1"),
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		Agent: AgentConfig{
			DailyLimit: getEnvAsInt("AGENT_DAILY_LIMIT", 20),
		},
		Notify: NotifyConfig{
			RelayURL: getEnv("EMAIL_RELAY_URL", ""),
			To:       getEnv("EMAIL_NOTIFY_TO", ""),
		},
	}

	return config, nil
}

// Validate reports missing required settings. It is called before any
// handler is mounted so a misconfigured deployment never serves traffic.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DB.Host) == "" || strings.TrimSpace(c.DB.DBName) == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME are required"))
	}
	if strings.TrimSpace(c.JWT.SigningKey) == "" {
		errs = append(errs, errors.New("JWT_SIGNING_KEY is required"))
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" && strings.TrimSpace(c.LLM.ProxyURL) == "" {
		errs = append(errs, errors.New("ANTHROPIC_API_KEY or LLM_PROXY_URL is required"))
	}
	return errors.Join(errs...)
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get comma separated environment variables
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
