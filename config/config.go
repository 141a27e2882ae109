package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataPath       string
	DefaultCountry string
	StrictParse    bool
	TopN           int
	HistogramBins  int

	HTTPAddr  string
	OutputDir string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxRetries     int
	MaxConcurrency int

	ChromeBin   string
	SnapshotURL string

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		DataPath:       getEnv("DATA_PATH", "./top_insta_influencers_data.csv"),
		DefaultCountry: getEnv("DEFAULT_COUNTRY", "India"),
		StrictParse:    getEnvBool("STRICT_PARSE", false),
		TopN:           getEnvInt("TOP_N", 10),
		HistogramBins:  getEnvInt("HISTOGRAM_BINS", 20),

		HTTPAddr:  getEnv("HTTP_ADDR", ":8501"),
		OutputDir: getEnv("OUTPUT_DIR", "./output"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard123"),
		PostgresDB:       getEnv("POSTGRES_DB", "influencers_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),

		ChromeBin:   getEnv("CHROME_BIN", ""),
		SnapshotURL: getEnv("SNAPSHOT_URL", "http://localhost:8501/"),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
