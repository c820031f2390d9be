package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConversionRate is the USD→AED rate used when CONVERSION_RATE is unset.
// The peg has been fixed since 1997, which is why a rate-history service is not
// part of this system.
const DefaultConversionRate = 3.67

// Config holds application configuration (env + Viper).
type Config struct {
	Env              string
	Port             string
	SessionSecret    string
	DatabaseURL      string
	RedisURL         string
	StorageURL       string // base URL of the document-storage service
	StorageSecretKey string
	ConversionRate   float64 // USD→AED, injected into the reports engine

	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	// A missing .env is fine (production reads real env vars); a present but
	// unreadable or malformed one is not.
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	rate := viper.GetFloat64("CONVERSION_RATE")
	if rate <= 0 {
		rate = DefaultConversionRate
	}

	return &Config{
		Env:              env,
		Port:             port,
		SessionSecret:    viper.GetString("SESSION_SECRET"),
		DatabaseURL:      dbURL,
		RedisURL:         viper.GetString("REDIS_URL"),
		StorageURL:       viper.GetString("STORAGE_URL"),
		StorageSecretKey: viper.GetString("STORAGE_SECRET_KEY"),
		ConversionRate:   rate,

		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
	}, nil
}
