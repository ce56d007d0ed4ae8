package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// SessionSecretLength is the decoded key size required for sealing session cookies
	SessionSecretLength = 32

	// DefaultErrorLogCapacity is the number of error log entries kept in durable storage
	DefaultErrorLogCapacity = 100
)

// Print strategies
const (
	PrintStrategyDocument   = "document"
	PrintStrategyStylesheet = "stylesheet"
	PrintStrategyBrowser    = "browser"
)

// Store backends
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendRedis  = "redis"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	AppURL      string
	// Sessions
	SessionSecret string
	SessionTTL    time.Duration
	// Poster generation endpoint
	GenerationEndpoint string
	GenerationTimeout  time.Duration // zero means transport default
	GenerateRatePerMin int
	// Session store / error log backend
	StoreBackend     string
	RedisHost        string
	RedisPort        int
	RedisPassword    string
	RedisDB          int
	ErrorLogCapacity int
	// Print / export
	PrintStrategy string
	PrintDelay    time.Duration
	PDFFontPath   string
	ChromePath    string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	sessionSecret := getEnv("SESSION_SECRET", "")

	// Validate session secret - this will fatal in production if invalid
	ValidateSessionSecret(sessionSecret, environment)

	// In development, generate a secure secret if none provided
	if sessionSecret == "" && environment != "production" {
		sessionSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary session secret for development. Set SESSION_SECRET env var for persistence.")
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "db/app.db"),
		Environment:        environment,
		UploadDir:          getEnv("UPLOAD_DIR", "static/uploads"),
		AppURL:             getEnv("APP_URL", "http://localhost:8080"),
		SessionSecret:      sessionSecret,
		SessionTTL:         getEnvDuration("SESSION_TTL", 24*time.Hour),
		GenerationEndpoint: getEnv("GENERATION_ENDPOINT", "http://localhost:8081/poster"),
		GenerationTimeout:  getEnvDuration("GENERATION_TIMEOUT", 0),
		GenerateRatePerMin: getEnvInt("GENERATE_RATE_PER_MINUTE", 10),
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", StoreBackendSQLite)),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnvInt("REDIS_PORT", 6379),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		ErrorLogCapacity:   getEnvInt("ERROR_LOG_CAPACITY", DefaultErrorLogCapacity),
		PrintStrategy:      normalizePrintStrategy(getEnv("PRINT_STRATEGY", PrintStrategyDocument)),
		PrintDelay:         getEnvDuration("PRINT_DELAY", 500*time.Millisecond),
		PDFFontPath:        os.Getenv("PDF_FONT_PATH"),
		ChromePath:         os.Getenv("CHROME_PATH"),
		R2AccountID:        getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:      getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:       getEnv("R2_BUCKET_NAME", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[WARNING] Invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func normalizePrintStrategy(value string) string {
	switch strings.ToLower(value) {
	case PrintStrategyStylesheet:
		return PrintStrategyStylesheet
	case PrintStrategyBrowser:
		return PrintStrategyBrowser
	default:
		return PrintStrategyDocument
	}
}

// ValidateSessionSecret validates the session secret meets security requirements.
// In production it must decode (base64) to exactly SessionSecretLength bytes.
func ValidateSessionSecret(secret string, environment string) error {
	// Known insecure defaults that must be rejected
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] SESSION_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] SESSION_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" {
		key, err := base64.StdEncoding.DecodeString(secret)
		if err != nil || len(key) != SessionSecretLength {
			log.Fatalf("[CRITICAL] SESSION_SECRET must be %d bytes encoded as base64. Generate with: openssl rand -base64 32", SessionSecretLength)
		}
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, SessionSecretLength)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
