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
	DBDriver  string
	DBName    string
	JWTKey    string
	SaltRound int

	UploadDir string

	SmsApiKey   string
	SmsApiUrl   string
	SmsSenderID string
	SendGridKey string
	EmailSender string
	EmailName   string
	AdminEmail  string

	CountryCode string // default dialing code prepended to local mobile numbers
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
		DBDriver:  getEnv("DB_DRIVER", "postgres"),
		DBName:    getEnv("DB_NAME", "renteo"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		SmsApiKey:   getEnv("SMS_API_KEY", "defaultSecret"),
		SmsApiUrl:   getEnv("SMS_API_URL", "https://sms.chinguisoft.com/v1/send"),
		SmsSenderID: getEnv("SMS_SENDER_ID", "RENTEO"),
		SendGridKey: getEnv("SENDGRID_API_KEY", "defaultSecret"),
		EmailSender: getEnv("EMAIL_SENDER", "no-reply@renteo.mr"),
		EmailName:   getEnv("EMAIL_SENDER_NAME", "Renteo"),
		AdminEmail:  getEnv("ADMIN_EMAIL", "ops@renteo.mr"),

		CountryCode: getEnv("COUNTRY_CODE", "+222"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendGridKey == "defaultSecret" {
		log.Println("Warning: SENDGRID_API_KEY not set. Outgoing emails will fail.")
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
