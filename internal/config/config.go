package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	Port          string `env:"PORT" envDefault:"8080"`
	Environment   string `env:"ENV" envDefault:"development"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`

	// EnforceAvailability turns the availability check into a hard
	// booking constraint instead of display-only data.
	EnforceAvailability      bool   `env:"ENFORCE_AVAILABILITY" envDefault:"false"`
	DefaultCancellationHours int    `env:"DEFAULT_CANCELLATION_HOURS" envDefault:"48"`
	ReminderSpec             string `env:"REMINDER_SPEC" envDefault:"@every 15m"`

	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
	EmailFrom      string `env:"SENDGRID_FROM_EMAIL"`
	EmailFromName  string `env:"SENDGRID_FROM_NAME" envDefault:"Autoscuola"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `env:"TWILIO_FROM_NUMBER"`
}

// Load reads .env when present, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
