package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultStateKey is the key of the persisted ledger and preferences blob
const DefaultStateKey = "mx_naturalizacion_trainer_v1"

// Config holds application configuration
type Config struct {
	DatabaseType string
	DatabasePath string
	DatabaseURL  string
	RedisURL     string
	StateKey     string

	QASource  string
	MCQSource string

	AutoAdvanceDelay time.Duration
	AudioDir         string

	LogLevel  string
	LogFormat string
	Debug     bool

	AWSRegion     string
	SESFromEmail  string
	SESFromName   string
	ReportToEmail string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseType:     getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./civicstrainer.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		StateKey:         getEnv("STATE_KEY", DefaultStateKey),
		QASource:         getEnv("QA_SOURCE", "./data/naturalizacion_qa_en.json"),
		MCQSource:        getEnv("MCQ_SOURCE", "./data/naturalizacion_mcq.json"),
		AutoAdvanceDelay: getEnvDuration("AUTO_ADVANCE_DELAY", 0),
		AudioDir:         getEnv("AUDIO_DIR", "./audio"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		Debug:            getEnvBool("DEBUG", false),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "Civics Trainer"),
		ReportToEmail:    getEnv("REPORT_TO_EMAIL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("1500ms") or plain milliseconds ("1500")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
