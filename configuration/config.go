package configuration

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment.
type Config struct {
	Env  string
	Port string

	DB string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	SessionTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// MailFallbackAddress receives the generic appointment mail when the
	// named patient does not exist. Empty disables the fallback.
	MailFallbackAddress string
	MailRetryInterval   time.Duration
	MailMaxAttempts     int

	AllowedOrigins  []string
	LoginRatePerSec float64
	LoginBurst      int
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load(".env")

	return &Config{
		Env:                 strings.ToLower(getEnv("ENV", "development")),
		Port:                getEnv("PORT", "8080"),
		DB:                  getEnv("DB", "host=localhost user=postgres password=postgres dbname=ayursutra port=5432 sslmode=disable"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getInt("REDIS_DB", 0),
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTTL:          getDuration("SESSION_TTL", 24*time.Hour),
		SMTPHost:            getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:            getInt("SMTP_PORT", 587),
		SMTPUser:            getEnv("SMTP_USER", os.Getenv("Email")),
		SMTPPassword:        getEnv("SMTP_PASSWORD", os.Getenv("Password")),
		MailFrom:            getEnv("MAIL_FROM", getEnv("SMTP_USER", os.Getenv("Email"))),
		MailFallbackAddress: getEnvAllowEmpty("MAIL_FALLBACK_ADDRESS", "hardcoded_email@example.com"),
		MailRetryInterval:   getDuration("MAIL_RETRY_INTERVAL", time.Minute),
		MailMaxAttempts:     getInt("MAIL_MAX_ATTEMPTS", 5),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		LoginRatePerSec:     getFloat("LOGIN_RATE_PER_SEC", 5),
		LoginBurst:          getInt("LOGIN_BURST", 10),
	}
}

// IsProduction reports whether ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvAllowEmpty distinguishes an unset variable from one set to "".
func getEnvAllowEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
