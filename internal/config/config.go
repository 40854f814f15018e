package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	API struct {
		Port     string
		BasePath string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	DB struct {
		DSN string
	}
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Cron struct {
		Secret string
	}
	Logging struct {
		Dir   string
		Level string
	}
	Notification struct {
		QueueSize   int
		MaxWorkers  int
		SendTimeout time.Duration
		SendRetries int
		RetryDelay  time.Duration
	}
	WhatsApp struct {
		APIKey               string
		BaseURL              string
		ReminderCampaign     string
		AnnouncementCampaign string
	}
	SMS struct {
		AccountSID string
		AuthToken  string
		FromNumber string
	}
	Email struct {
		FromEmail    string
		ResendAPIKey string
		SMTPEnabled  bool
		SMTPServer   string
		SMTPPort     int
		Username     string
		Password     string
	}
	Telegram struct {
		BotToken string
	}
	RateLimit struct {
		SendPerSecond   float64
		PublicPerMinute int
		PublicBurst     int
	}
	Reminder struct {
		DefaultTemplate string
		DedupeAutomatic bool
	}
	Seed struct {
		File string
	}
}

// DefaultReminderTemplate is used when neither the request nor settings carry one.
const DefaultReminderTemplate = "Reminder: It's your turn for bin duty."

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	env := envReader{lookup: lookup}
	var cfg Config

	// API settings
	cfg.API.Port = env.get("API_PORT", ":8080")
	if !strings.HasPrefix(cfg.API.Port, ":") && !strings.Contains(cfg.API.Port, ":") {
		cfg.API.Port = ":" + cfg.API.Port
	}
	cfg.API.BasePath = env.get("API_BASE_PATH", "/api/v0")

	// Redis document store
	cfg.Redis.Addr = env.get("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = env.get("REDIS_PASSWORD", "")
	cfg.Redis.DB = env.getInt("REDIS_DB", 0)

	// Optional delivery archive
	cfg.DB.DSN = env.get("DB_DSN", "")

	// Optional Kafka trigger queue
	cfg.Kafka.Broker = env.get("KAFKA_BROKER", "")
	cfg.Kafka.Topic = env.get("KAFKA_TOPIC", "binduty_triggers")
	cfg.Kafka.GroupID = env.get("KAFKA_GROUP_ID", "binduty-service")

	cfg.Auth.JWTSecret = env.get("JWT_SECRET_KEY", "")
	cfg.Auth.TokenTTL = env.getDuration("TOKEN_TTL", 24*time.Hour)
	cfg.Cron.Secret = env.get("CRON_SECRET", "")

	cfg.Logging.Dir = env.get("LOG_DIR", "logs")
	cfg.Logging.Level = env.get("LOG_LEVEL", "info")

	// Notification worker settings
	cfg.Notification.QueueSize = env.getInt("QUEUE_SIZE", 100)
	cfg.Notification.MaxWorkers = env.getInt("MAX_WORKERS", 2)
	cfg.Notification.SendTimeout = env.getDuration("SEND_TIMEOUT", 10*time.Second)
	cfg.Notification.SendRetries = env.getInt("SEND_RETRIES", 1)
	cfg.Notification.RetryDelay = env.getDuration("SEND_RETRY_DELAY", time.Second)

	cfg.WhatsApp.APIKey = env.get("AISENSY_API_KEY", "")
	cfg.WhatsApp.BaseURL = env.get("AISENSY_BASE_URL", "https://api.aisensy.com/v1/messages/campaign")
	cfg.WhatsApp.ReminderCampaign = env.get("AISENSY_REMINDER_TEMPLATE", "bin_reminder")
	cfg.WhatsApp.AnnouncementCampaign = env.get("AISENSY_ANNOUNCEMENT_TEMPLATE", "announcement")

	cfg.SMS.AccountSID = env.get("TWILIO_ACCOUNT_SID", "")
	cfg.SMS.AuthToken = env.get("TWILIO_AUTH_TOKEN", "")
	cfg.SMS.FromNumber = env.get("TWILIO_FROM_NUMBER", "")

	cfg.Email.FromEmail = env.get("RESEND_FROM_EMAIL", "onboarding@resend.dev")
	cfg.Email.ResendAPIKey = env.get("RESEND_API_KEY", "")
	cfg.Email.SMTPEnabled = env.getBool("SMTP_ENABLED", false)
	cfg.Email.SMTPServer = env.get("EMAIL_SMTP_SERVER", "")
	cfg.Email.SMTPPort = env.getInt("EMAIL_SMTP_PORT", 587)
	cfg.Email.Username = env.get("EMAIL_USERNAME", "")
	cfg.Email.Password = env.get("EMAIL_PASSWORD", "")

	cfg.Telegram.BotToken = env.get("TELEGRAM_BOT_TOKEN", "")

	cfg.RateLimit.SendPerSecond = env.getFloat("SEND_RATE_PER_SECOND", 5)
	cfg.RateLimit.PublicPerMinute = env.getInt("PUBLIC_RATE_PER_MINUTE", 10)
	cfg.RateLimit.PublicBurst = env.getInt("PUBLIC_RATE_BURST", 3)

	cfg.Reminder.DefaultTemplate = env.get("DEFAULT_REMINDER_TEMPLATE", DefaultReminderTemplate)
	cfg.Reminder.DedupeAutomatic = env.getBool("REMINDER_DEDUPE_AUTOMATIC", true)

	cfg.Seed.File = env.get("SEED_FILE", "")

	// Validate required settings
	missing := []string{}
	if cfg.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	if cfg.Notification.MaxWorkers <= 0 {
		cfg.Notification.MaxWorkers = 1
	}
	if cfg.Notification.SendRetries <= 0 {
		cfg.Notification.SendRetries = 1
	}

	return cfg, nil
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) get(key, fallback string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (e envReader) getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(e.get(key, "")); err == nil {
		return v
	}
	return fallback
}

func (e envReader) getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(e.get(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func (e envReader) getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(e.get(key, "")); err == nil {
		return v
	}
	return fallback
}

func (e envReader) getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(e.get(key, "")); err == nil {
		return v
	}
	return fallback
}
