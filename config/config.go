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
	Port    string
	AppEnv  string
	LogMode string

	DBDriver       string // postgres, mysql or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBDSN          string // Overrides the DSN built from the DB_* parts
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey      string
	JWTTTLHours int
	SaltRound   int

	CorsOrigins   string
	UploadDir     string
	PublicBaseURL string

	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string

	GoogleCredentials  string // File path or inline JSON
	SheetsDefaultRange string

	MPAccessToken          string
	MPBaseURL              string
	MPWebhookURL           string
	MPCurrency             string
	PaymentPendingTTLHours int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:    getEnv("PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),
		LogMode: getEnv("LOG_MODE", "development"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "learnly"),
		DBDSN:          getEnv("DB_DSN", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:      getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),
		SaltRound:   getEnvInt("SALT_ROUND", 10),

		CorsOrigins:   getEnv("CORS_ORIGINS", "*"),
		UploadDir:     getEnv("UPLOAD_DIR", "./public/uploads"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),

		SendgridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@learnly.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Learnly"),

		GoogleCredentials:  googleCredentials(),
		SheetsDefaultRange: getEnv("SHEETS_DEFAULT_RANGE", "Leads!A:H"),

		MPAccessToken:          getEnv("MP_ACCESS_TOKEN", ""),
		MPBaseURL:              strings.TrimRight(getEnv("MP_BASE_URL", "https://api.mercadopago.com"), "/"),
		MPWebhookURL:           getEnv("MP_WEBHOOK_URL", ""),
		MPCurrency:             getEnv("MP_CURRENCY", "BRL"),
		PaymentPendingTTLHours: getEnvInt("PAYMENT_PENDING_TTL_HOURS", 48),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Emails will be skipped.")
	}
	if AppConfig.MPAccessToken == "" {
		log.Println("Warning: MP_ACCESS_TOKEN not set. Checkout is disabled.")
	}
}

// Default returns a configuration suitable for tests and local tooling.
func Default() *Config {
	return &Config{
		Port:                   "3000",
		AppEnv:                 "test",
		LogMode:                "development",
		DBDriver:               "sqlite",
		DBName:                 "file::memory:?cache=shared",
		DBMaxOpenConns:         1,
		DBMaxIdleConns:         1,
		JWTKey:                 "test-secret",
		JWTTTLHours:            24,
		SaltRound:              4,
		CorsOrigins:            "*",
		UploadDir:              os.TempDir(),
		PublicBaseURL:          "http://localhost:3000",
		EmailSender:            "no-reply@learnly.local",
		EmailSenderName:        "Learnly",
		SheetsDefaultRange:     "Leads!A:H",
		MPBaseURL:              "https://api.mercadopago.com",
		MPCurrency:             "BRL",
		PaymentPendingTTLHours: 48,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
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

func googleCredentials() string {
	if creds := getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""); creds != "" {
		return creds
	}
	return getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")
}
