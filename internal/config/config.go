package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	AppPort            string
	AppEnv             string
	StripeSecretKey    string
	StripeWebhookKey   string
	FarmerShareRate    decimal.Decimal
	HighValueThreshold decimal.Decimal
}

const (
	defaultFarmerShareRate    = "0.80"
	defaultHighValueThreshold = "20000"
)

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             os.Getenv("DB_PORT"),
		AppPort:            os.Getenv("APP_PORT"),
		AppEnv:             os.Getenv("APP_ENV"),
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
		FarmerShareRate:    decimalEnv("FARMER_SHARE_RATE", defaultFarmerShareRate),
		HighValueThreshold: decimalEnv("HIGH_VALUE_THRESHOLD", defaultHighValueThreshold),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

// decimalEnv reads a decimal value from the environment, falling back to def
// when the variable is missing or unparsable. Commission rates must never
// default to zero on a bad deploy.
func decimalEnv(key, def string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		raw = def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, raw, def)
		d, _ = decimal.NewFromString(def)
	}
	return d
}
