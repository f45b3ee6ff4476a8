package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// Redis Configuration
	REDIS_URL      string
	REDIS_PASSWORD string
	REDIS_DB       string
	// OCR service fallback for scanned transcripts
	OCR_SERVICE_URL string
	// DigitalOcean Spaces (raw transcript archive)
	DO_SPACES_KEY      string
	DO_SPACES_SECRET   string
	DO_SPACES_BUCKET   string
	DO_SPACES_REGION   string
	DO_SPACES_ENDPOINT string
	// HTTP surface
	ALLOWED_ORIGINS string
	// Background jobs
	CRON_ENABLED bool
	// Plan validation knobs
	PLAN_SOFT_CREDIT_LIMIT float64
	PLAN_HARD_CREDIT_LIMIT float64
	PLAN_EDITABLE_TERMS    string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	cronEnabled := true
	if v := os.Getenv("CRON_ENABLED"); v != "" {
		cronEnabled, _ = strconv.ParseBool(v)
	}

	softLimit := envFloat("PLAN_SOFT_CREDIT_LIMIT", 16)
	hardLimit := envFloat("PLAN_HARD_CREDIT_LIMIT", 18)

	editableTerms := os.Getenv("PLAN_EDITABLE_TERMS")
	if editableTerms == "" {
		editableTerms = "all"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// Redis
		REDIS_URL:      os.Getenv("REDIS_URL"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:       os.Getenv("REDIS_DB"),
		// OCR
		OCR_SERVICE_URL: os.Getenv("OCR_SERVICE_URL"),
		// DigitalOcean Spaces
		DO_SPACES_KEY:      os.Getenv("DO_SPACES_KEY"),
		DO_SPACES_SECRET:   os.Getenv("DO_SPACES_SECRET"),
		DO_SPACES_BUCKET:   os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:   os.Getenv("DO_SPACES_REGION"),
		DO_SPACES_ENDPOINT: os.Getenv("DO_SPACES_ENDPOINT"),
		// HTTP
		ALLOWED_ORIGINS: allowedOrigins,
		// Jobs
		CRON_ENABLED: cronEnabled,
		// Plan validation
		PLAN_SOFT_CREDIT_LIMIT: softLimit,
		PLAN_HARD_CREDIT_LIMIT: hardLimit,
		PLAN_EDITABLE_TERMS:    editableTerms,
	}

	return envVariables, nil
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
