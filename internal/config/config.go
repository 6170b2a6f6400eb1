package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string

	MpesaEnvironment    string // "sandbox" or "live"
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaShortcode      string
	MpesaPasskey        string
	MpesaCallbackURL    string
	MpesaMock           bool
}

// Load reads configuration from the environment, failing fast on anything
// required. Gateway credentials are only required when mock mode is off.
func Load() (*Config, error) {
	getEnv := func(key string, required bool) (string, error) {
		value := os.Getenv(key)
		if value == "" && required {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg := &Config{}
	var err error

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.MongoDatabase = os.Getenv("MONGO_DATABASE")
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "baratonrides"
	}
	cfg.MpesaEnvironment = os.Getenv("MPESA_ENVIRONMENT")
	if cfg.MpesaEnvironment == "" {
		cfg.MpesaEnvironment = "sandbox"
	}

	if cfg.MongoURI, err = getEnv("MONGOURI", true); err != nil {
		return nil, err
	}
	if cfg.JWTSecret, err = getEnv("JWT_SECRET", true); err != nil {
		return nil, err
	}

	cfg.MpesaMock = os.Getenv("MPESA_MOCK") == "true"

	requireCreds := !cfg.MpesaMock
	if cfg.MpesaConsumerKey, err = getEnv("MPESA_CONSUMER_KEY", requireCreds); err != nil {
		return nil, err
	}
	if cfg.MpesaConsumerSecret, err = getEnv("MPESA_CONSUMER_SECRET", requireCreds); err != nil {
		return nil, err
	}
	if cfg.MpesaShortcode, err = getEnv("MPESA_SHORTCODE", requireCreds); err != nil {
		return nil, err
	}
	if cfg.MpesaPasskey, err = getEnv("MPESA_PASSKEY", requireCreds); err != nil {
		return nil, err
	}
	if cfg.MpesaCallbackURL, err = getEnv("MPESA_CALLBACK_URL", requireCreds); err != nil {
		return nil, err
	}

	return cfg, nil
}
