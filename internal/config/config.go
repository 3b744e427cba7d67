// Package config loads application configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port int    `env:"API_PORT" envDefault:"5000"`

	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"devcamper"`

	JWTSecret        string        `env:"JWT_SECRET,required"`
	JWTExpire        time.Duration `env:"JWT_EXPIRE" envDefault:"720h"` // 30 days
	JWTCookieExpire  time.Duration `env:"JWT_COOKIE_EXPIRE" envDefault:"720h"`
	ResetTokenExpire time.Duration `env:"RESET_TOKEN_EXPIRE" envDefault:"10m"`

	FileUploadPath string `env:"FILE_UPLOAD_PATH" envDefault:"./public/uploads"`
	MaxFileUpload  int64  `env:"MAX_FILE_UPLOAD" envDefault:"1000000"` // bytes

	DefaultPageLimit int64 `env:"DEFAULT_PAGE_LIMIT" envDefault:"25"`

	GeocoderBaseURL string `env:"GEOCODER_BASE_URL" envDefault:"https://www.mapquestapi.com/geocoding/v1"`
	GeocoderAPIKey  string `env:"GEOCODER_API_KEY"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	FromEmail      string `env:"FROM_EMAIL" envDefault:"noreply@devcamper.io"`
	FromName       string `env:"FROM_NAME" envDefault:"DevCamper"`
}

// IsProduction reports whether the app runs in a production configuration.
// Controls the secure flag on the auth cookie.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr returns the listen address in :port form.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads a .env file if present, then parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
