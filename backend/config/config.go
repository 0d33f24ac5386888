package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string // sqlite file or DSN
	JWTSecret  string
	TokenTTL   time.Duration
	ServerPort string

	CORSOrigins string
	TimeZone    string // day boundaries of the challenge

	LogLevel  string
	LogFormat string // text, json, logfmt
	LogFile   string

	ReminderSchedule string
	AWSRegion        string
	SESFromEmail     string
	SESFromName      string
	AppBaseURL       string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "glowup"),
		DBPath:     getEnv("DB_PATH", "glowup.db"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		TokenTTL:   getDuration("TOKEN_TTL", 72*time.Hour),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		TimeZone:    getEnv("CHALLENGE_TIMEZONE", "UTC"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   getEnv("LOG_FILE", ""),

		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "* * * * *"),
		AWSRegion:        getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "Glow Up"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:3000"),
	}, nil
}

// Location resolves TimeZone, falling back to UTC for an empty name.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.TimeZone) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.TimeZone)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("36h") or a plain number of hours.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if hours, err := strconv.Atoi(value); err == nil {
		return time.Duration(hours) * time.Hour
	}
	log.Printf("Invalid %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}
