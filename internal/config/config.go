package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Google Sheets backend settings
	SheetID           string `envconfig:"GOOGLE_SHEET_ID" required:"true"`
	GoogleClientEmail string `envconfig:"GOOGLE_CLIENT_EMAIL" required:"true"`
	GooglePrivateKey  string `envconfig:"GOOGLE_PRIVATE_KEY" required:"true"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Free-tier limits
	FreeMonthlyActivityLimit int `envconfig:"FREE_MONTHLY_ACTIVITY_LIMIT" default:"50"`
	FreeDailyCommentLimit    int `envconfig:"FREE_DAILY_COMMENT_LIMIT" default:"3"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
