package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every environment-derived setting. It is loaded once in main
// and passed explicitly to the components that need it; nothing reads the
// environment after Load returns.
type Config struct {
	MongoURI            string
	DBName              string
	JWTSecret           string
	AccessTokenTTL      time.Duration
	StripeWebhookSecret string
	AmqpURL             string
	EmailQueue          string
	DefaultFromEmail    string
	FreeDeliveryMin     float64
	DeliveryPercentage  float64
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	cfg := Config{
		MongoURI:            getEnvOrDefault("MONGO_URI", ""),
		DBName:              getEnvOrDefault("DB_NAME", "boutique"),
		JWTSecret:           getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:      getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		StripeWebhookSecret: getEnvOrDefault("STRIPE_WH_SECRET", ""),
		AmqpURL:             getEnvOrDefault("AMQP_URL", ""),
		EmailQueue:          getEnvOrDefault("EMAIL_QUEUE", "email_jobs"),
		DefaultFromEmail:    getEnvOrDefault("DEFAULT_FROM_EMAIL", "orders@boutique.example"),
		FreeDeliveryMin:     getFloatEnv("FREE_DELIVERY_THRESHOLD", 50),
		DeliveryPercentage:  getFloatEnv("STANDARD_DELIVERY_PERCENTAGE", 10),
	}

	for key, value := range map[string]string{
		"MONGO_URI":        cfg.MongoURI,
		"JWT_SECRET":       cfg.JWTSecret,
		"STRIPE_WH_SECRET": cfg.StripeWebhookSecret,
	} {
		if value == "" {
			return Config{}, fmt.Errorf("ENV %s is required", key)
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}
