package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	DB        DatabaseConfig
	App       AppConfig
	Logger    LoggerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Social    SocialConfig
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     string `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	MaxOpenConns    int  `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int  `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int  `mapstructure:"DB_CONN_MAX_LIFETIME_SECONDS"`
	ConnMaxIdleTime int  `mapstructure:"DB_CONN_MAX_IDLE_TIME_SECONDS"`
	AutoMigrate     bool `mapstructure:"DB_AUTO_MIGRATE"`
}

// AppConfig holds configuration for the application servers
type AppConfig struct {
	GRPCPort               string `mapstructure:"GRPC_PORT"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	GinPort                string `mapstructure:"GIN_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
	MaxSizeMB        int     `mapstructure:"LOG_MAX_SIZE_MB"`
	MaxBackups       int     `mapstructure:"LOG_MAX_BACKUPS"`
	MaxAgeDays       int     `mapstructure:"LOG_MAX_AGE_DAYS"`
}

// RedisConfig holds configuration for Redis and the caches stored in it
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	// CacheTTL is the user cache lifetime in seconds
	CacheTTL int `mapstructure:"REDIS_CACHE_TTL"`
	// RankingCacheTTL is the top users cache lifetime in seconds; 0 disables it
	RankingCacheTTL int `mapstructure:"REDIS_RANKING_CACHE_TTL"`
}

// RateLimitConfig holds the token bucket settings shared by gRPC and Gin
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST_CAPACITY"`
}

// AuthConfig holds the bearer token verification key
type AuthConfig struct {
	JWTSecret string `mapstructure:"JWT_SECRET"`
}

// CORSConfig holds the origins allowed to call the REST API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// SocialConfig holds the subscription and ranking limits
type SocialConfig struct {
	SubscriptionQuota    int `mapstructure:"SUBSCRIPTION_QUOTA"`
	MaxFolloweeUsernames int `mapstructure:"MAX_FOLLOWEE_USERNAMES"`
	TopUsersLimit        int `mapstructure:"TOP_USERS_LIMIT"`
}

// LoadConfig reads configuration from app.env in path, overridden by environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv() // APP_ENV must be visible while defaults are chosen
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME_SECONDS")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME_SECONDS")
	config.DB.AutoMigrate = v.GetBool("DB_AUTO_MIGRATE")

	config.App.GRPCPort = v.GetString("GRPC_PORT")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.GinPort = v.GetString("GIN_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")
	config.Logger.MaxSizeMB = v.GetInt("LOG_MAX_SIZE_MB")
	config.Logger.MaxBackups = v.GetInt("LOG_MAX_BACKUPS")
	config.Logger.MaxAgeDays = v.GetInt("LOG_MAX_AGE_DAYS")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = v.GetInt("REDIS_CACHE_TTL")
	config.Redis.RankingCacheTTL = v.GetInt("REDIS_RANKING_CACHE_TTL")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST_CAPACITY")

	config.Auth.JWTSecret = v.GetString("JWT_SECRET")

	config.CORS.AllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	config.Social.SubscriptionQuota = v.GetInt("SUBSCRIPTION_QUOTA")
	config.Social.MaxFolloweeUsernames = v.GetInt("MAX_FOLLOWEE_USERNAMES")
	config.Social.TopUsersLimit = v.GetInt("TOP_USERS_LIMIT")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "social_network")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SECONDS", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GIN_PORT", "8081")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)

	// Logger defaults
	v.SetDefault("APP_ENV", "development")
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "social-network-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("REDIS_CACHE_TTL", 300)
	v.SetDefault("REDIS_RANKING_CACHE_TTL", 30)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 10.0)
	v.SetDefault("RATE_LIMIT_BURST_CAPACITY", 20)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("SUBSCRIPTION_QUOTA", 100)
	v.SetDefault("MAX_FOLLOWEE_USERNAMES", 10)
	v.SetDefault("TOP_USERS_LIMIT", 20)
}

// Validate rejects values the application cannot start with.
func (c *Config) Validate() error {
	var errs []error

	for name, port := range map[string]string{
		"GRPC_PORT": c.App.GRPCPort,
		"HTTP_PORT": c.App.HTTPPort,
		"GIN_PORT":  c.App.GinPort,
	} {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			errs = append(errs, fmt.Errorf("%s must be a port number, got %q", name, port))
		}
	}
	if c.App.ShutdownTimeoutSeconds < 1 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be at least 1"))
	}

	if c.DB.Host == "" || c.DB.Name == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME are required"))
	}
	if c.DB.MaxOpenConns < 1 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be at least 1"))
	}
	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		errs = append(errs, errors.New("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS"))
	}

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.CacheTTL < 0 || c.Redis.RankingCacheTTL < 0 {
		errs = append(errs, errors.New("cache TTLs must not be negative"))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_REQUESTS_PER_SECOND must be positive"))
		}
		if c.RateLimit.BurstCapacity < 1 {
			errs = append(errs, errors.New("RATE_LIMIT_BURST_CAPACITY must be at least 1"))
		}
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	if c.Social.SubscriptionQuota < 1 {
		errs = append(errs, errors.New("SUBSCRIPTION_QUOTA must be at least 1"))
	}
	if c.Social.MaxFolloweeUsernames < 1 {
		errs = append(errs, errors.New("MAX_FOLLOWEE_USERNAMES must be at least 1"))
	}
	if c.Social.TopUsersLimit < 1 {
		errs = append(errs, errors.New("TOP_USERS_LIMIT must be at least 1"))
	}

	return errors.Join(errs...)
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
