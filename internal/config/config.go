package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Course    CourseConfig    `mapstructure:"course"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Email     EmailConfig     `mapstructure:"email"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port    string
	Mode    string
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

// CourseConfig describes the course structure itself: which weeks are free,
// how many weeks exist, and where the curriculum document lives.
type CourseConfig struct {
	CurriculumPaths []string `mapstructure:"curriculum_paths"`
	FreeWeeks       []int    `mapstructure:"free_weeks"`
	TotalWeeks      int      `mapstructure:"total_weeks"`
	PreviewLines    int      `mapstructure:"preview_lines"`
	PriceAmount     int      `mapstructure:"price_amount"` // cents
	PriceDisplay    string   `mapstructure:"price_display"`
}

type PaymentConfig struct {
	Provider     string             `mapstructure:"provider"` // "lemonsqueezy" or "stripe"
	LemonSqueezy LemonSqueezyConfig `mapstructure:"lemonsqueezy"`
	Stripe       StripeConfig       `mapstructure:"stripe"`
}

type LemonSqueezyConfig struct {
	APIKey        string `mapstructure:"api_key"`
	StoreID       string `mapstructure:"store_id"`
	VariantID     string `mapstructure:"variant_id"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	RedirectURL   string `mapstructure:"redirect_url"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	PriceID       string `mapstructure:"price_id"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	SuccessURL    string `mapstructure:"success_url"`
	CancelURL     string `mapstructure:"cancel_url"`
}

type EmailConfig struct {
	Region    string `mapstructure:"region"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ACADEMY")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("server.base_url", "SERVER_BASE_URL")

	// Payment
	viper.BindEnv("payment.provider", "PAYMENT_PROVIDER")
	viper.BindEnv("payment.lemonsqueezy.api_key", "LEMON_SQUEEZY_API_KEY")
	viper.BindEnv("payment.lemonsqueezy.store_id", "LEMON_SQUEEZY_STORE_ID")
	viper.BindEnv("payment.lemonsqueezy.variant_id", "LEMON_SQUEEZY_VARIANT_ID")
	viper.BindEnv("payment.lemonsqueezy.webhook_secret", "LEMON_SQUEEZY_WEBHOOK_SECRET")
	viper.BindEnv("payment.stripe.secret_key", "STRIPE_SECRET_KEY")
	viper.BindEnv("payment.stripe.price_id", "STRIPE_PRICE_ID")
	viper.BindEnv("payment.stripe.webhook_secret", "STRIPE_WEBHOOK_SECRET")

	// Email
	viper.BindEnv("email.region", "SES_REGION")
	viper.BindEnv("email.from_email", "SES_FROM_EMAIL")
	viper.BindEnv("email.from_name", "SES_FROM_NAME")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Course.TotalWeeks == 0 {
		cfg.Course.TotalWeeks = 12
	}
	if cfg.Course.PreviewLines == 0 {
		cfg.Course.PreviewLines = 30
	}
	if len(cfg.Course.CurriculumPaths) == 0 {
		cfg.Course.CurriculumPaths = []string{"curriculum.md", "../curriculum.md", "data/curriculum.md"}
	}

	if cfg.Server.Mode == "release" {
		if len(cfg.JWT.Secret) < 32 {
			return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
		}
		if cfg.Payment.Provider == "lemonsqueezy" && cfg.Payment.LemonSqueezy.WebhookSecret == "" {
			return nil, fmt.Errorf("lemonsqueezy webhook secret is required in release mode")
		}
		if cfg.Payment.Provider == "stripe" && cfg.Payment.Stripe.WebhookSecret == "" {
			return nil, fmt.Errorf("stripe webhook secret is required in release mode")
		}
	}

	return &cfg, nil
}
