package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisRateLimitDB int    `mapstructure:"REDIS_RATE_LIMIT_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// Stripe (escrow payments).
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Meeting provider API.
	MeetingAPIBaseURL string `mapstructure:"MEETING_API_BASE_URL"`
	MeetingAPIKey     string `mapstructure:"MEETING_API_KEY"`

	// Calendar read API (best-effort busy/free enrichment).
	CalendarAPIBaseURL string `mapstructure:"CALENDAR_API_BASE_URL"`

	// Per-actor write rate limit (fixed window).
	RateLimitRequests int `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   int `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`

	// QC rubric knobs.
	QCMinWordCount    int  `mapstructure:"QC_MIN_WORD_COUNT"`
	QCRequiredActions int  `mapstructure:"QC_REQUIRED_ACTIONS"`
	QCStrictEvaluator bool `mapstructure:"QC_STRICT_EVALUATOR"`

	// Candidate cancellation window in minutes before the call start.
	CancellationWindowMin int `mapstructure:"CANCELLATION_WINDOW_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_RATE_LIMIT_DB", 1)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 2)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("MEETING_API_BASE_URL", "")
	viper.SetDefault("MEETING_API_KEY", "")
	viper.SetDefault("CALENDAR_API_BASE_URL", "")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("QC_MIN_WORD_COUNT", 200)
	viper.SetDefault("QC_REQUIRED_ACTIONS", 3)
	viper.SetDefault("QC_STRICT_EVALUATOR", false)
	viper.SetDefault("CANCELLATION_WINDOW_MIN", 180)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
