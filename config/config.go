package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	SiteURL   string
	JWTKey    string
	SaltRound int

	SessionTTLHours     int
	VerifyTokenTTLHours int
	PageSize            int
	MediaDir            string
	CSRFEnabled         bool
	LogMode             string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBDSN      string // Overrides the individual DB_* settings when set
	DBLogLevel string

	RedisURL string

	EmailProvider  string // smtp, sendgrid, log
	EmailSender    string
	Password       string // SMTP Password
	SMTPHost       string
	SMTPPort       string
	SendgridAPIKey string
	EmailRetrySpec string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		SiteURL:   strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		SessionTTLHours:     getEnvInt("SESSION_TTL_HOURS", 24),
		VerifyTokenTTLHours: getEnvInt("VERIFY_TOKEN_TTL_HOURS", 72),
		PageSize:            getEnvInt("PAGE_SIZE", 6),
		MediaDir:            getEnv("MEDIA_DIR", "./media"),
		CSRFEnabled:         getEnvBool("CSRF_ENABLED", true),
		LogMode:             getEnv("LOG_MODE", "dev"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "skilloria"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBDSN:      getEnv("DB_DSN", ""),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		RedisURL: getEnv("REDIS_URL", ""),

		EmailProvider:  strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@skilloria.local"),
		Password:       getEnv("PASSWORD", ""),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailRetrySpec: getEnv("EMAIL_RETRY_SPEC", "@every 5m"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.EmailProvider == "sendgrid" && AppConfig.SendgridAPIKey == "" {
		log.Println("Warning: EMAIL_PROVIDER=sendgrid without SENDGRID_API_KEY. Emails will stay queued.")
	}
	if AppConfig.PageSize < 1 {
		AppConfig.PageSize = 6
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
