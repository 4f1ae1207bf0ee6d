package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// Raw input tables.
	TransactionsPath    string
	UsersPath           string
	CountriesPath       string
	FXRatesPath         string
	CurrencyDetailsPath string
	FraudstersPath      string

	// Fitted/trained artifacts and run outputs.
	ModelPath        string
	ArtifactPath     string
	PredictionsPath  string
	FeatureSnapshots string

	// Serve-mode rate limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./fraudscore.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		TransactionsPath:    getEnv("TRANSACTIONS_PATH", "data/transactions.csv"),
		UsersPath:           getEnv("USERS_PATH", "data/users.csv"),
		CountriesPath:       getEnv("COUNTRIES_PATH", "data/countries.csv"),
		FXRatesPath:         getEnv("FX_RATES_PATH", "data/fx_rates.csv"),
		CurrencyDetailsPath: getEnv("CURRENCY_DETAILS_PATH", "data/currency_details.csv"),
		FraudstersPath:      getEnv("FRAUDSTERS_PATH", "data/fraudsters.csv"),

		ModelPath:        getEnv("MODEL_PATH", "artifacts/model.json"),
		ArtifactPath:     getEnv("ARTIFACT_PATH", "artifacts/features.json"),
		PredictionsPath:  getEnv("PREDICTIONS_PATH", "predictions.csv"),
		FeatureSnapshots: getEnv("FEATURE_SNAPSHOT_DIR", "artifacts"),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 30),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Float value for %s not set or empty, using default: %v", key, fallback)
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}
