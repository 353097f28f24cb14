package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	Env      string
	HTTPAddr string
	LogLevel string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresTimeZone string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string

	ClientUrl      string
	AllowedOrigins []string

	MailHost     string
	MailPort     string
	MailUsername string
	MailPassword string
	MailFrom     string

	TelegramToken  string
	TelegramChatID int64

	SnapshotCacheTTL      time.Duration
	DismissalTTL          time.Duration
	ReminderJobEnabled    bool
	ReminderJobInterval   time.Duration
	ReminderJobTimeout    time.Duration
	SystemMetricsInterval time.Duration

	RateLimiterCleanupInterval time.Duration
	RateLimiterMaxIdle         time.Duration
)

// Init loads the .env file when present and reads the configuration from the environment
func Init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not load .env file")
	}

	Env = getenv("ENV", "development")
	HTTPAddr = getenv("HTTP_ADDR", ":8080")
	LogLevel = getenv("LOG_LEVEL", "info")

	PostgresHost = getenv("POSTGRES_HOST", "localhost")
	PostgresPort = getenv("POSTGRES_PORT", "5432")
	PostgresUser = getenv("POSTGRES_USER", "postgres")
	PostgresPassword = getenv("POSTGRES_PASSWORD", "postgres")
	PostgresDB = getenv("POSTGRES_DB", "ibp_academy")
	PostgresTimeZone = getenv("POSTGRES_TIMEZONE", "Asia/Jakarta")

	RedisAddr = os.Getenv("REDIS_ADDR")
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	RedisDB = getenvInt("REDIS_DB", 0)

	JWTSecret = getenv("JWT_SECRET", "dev-secret")
	JWTIssuer = getenv("JWT_ISSUER", "ibp-academy")

	ClientUrl = getenv("CLIENT_URL", "http://localhost:3000")
	AllowedOrigins = splitList(getenv("ALLOWED_ORIGINS", ClientUrl))

	MailHost = os.Getenv("MAIL_HOST")
	MailPort = getenv("MAIL_PORT", "587")
	MailUsername = os.Getenv("MAIL_USERNAME")
	MailPassword = os.Getenv("MAIL_PASSWORD")
	MailFrom = getenv("MAIL_FROM", MailUsername)

	TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	TelegramChatID = int64(getenvInt("TELEGRAM_CHAT_ID", 0))

	SnapshotCacheTTL = getenvDuration("SNAPSHOT_CACHE_TTL", 30*time.Second)
	DismissalTTL = getenvDuration("DISMISSAL_TTL", 24*time.Hour)
	ReminderJobEnabled = getenvBool("REMINDER_JOB_ENABLED", true)
	ReminderJobInterval = getenvDuration("REMINDER_JOB_INTERVAL", 15*time.Minute)
	ReminderJobTimeout = getenvDuration("REMINDER_JOB_TIMEOUT", 30*time.Second)
	SystemMetricsInterval = getenvDuration("SYSTEM_METRICS_INTERVAL", 15*time.Second)

	RateLimiterCleanupInterval = getenvDuration("RATE_LIMITER_CLEANUP_INTERVAL", 5*time.Minute)
	RateLimiterMaxIdle = getenvDuration("RATE_LIMITER_MAX_IDLE", 30*time.Minute)
}

// IsProduction reports whether the service runs in production mode
func IsProduction() bool {
	return strings.EqualFold(Env, "production")
}

func getenv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
