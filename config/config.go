package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	Currency string

	PayPalMode         string // sandbox or live
	PayPalBaseURL      string
	PayPalClientID     string
	PayPalClientSecret string

	BrevoApiKey      string
	BrevoSenderEmail string
	BrevoSenderName  string

	FrontendBaseURL string // return/cancel redirect targets
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
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		Currency: getEnv("CURRENCY", "USD"),

		PayPalMode:         getEnv("PAYPAL_MODE", "sandbox"),
		PayPalBaseURL:      getEnv("PAYPAL_BASE_URL", "https://api.sandbox.paypal.com"),
		PayPalClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
		PayPalClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),

		BrevoApiKey:      getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail: getEnv("BREVO_SENDER_EMAIL", "no-reply@learnhub.local"),
		BrevoSenderName:  getEnv("BREVO_SENDER_NAME", "Learning Platform"),

		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
	}

	if AppConfig.PayPalMode == "live" {
		AppConfig.PayPalBaseURL = getEnv("PAYPAL_BASE_URL", "https://api.paypal.com")
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.PayPalClientID == "" {
		log.Println("Warning: PAYPAL_CLIENT_ID not set. Payment initiation will fail.")
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
