package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Env  string `envconfig:"APP_ENV" default:"development"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Mongo struct {
		URI  string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
		Name string `envconfig:"MONGODB_NAME" default:"kioskpos"`
	}

	JWT struct {
		Secret string `envconfig:"JWT_SECRET"`
	}

	Admin struct {
		SecretKey string `envconfig:"ADMIN_SECRET_KEY"`
	}

	Kiosk struct {
		IdleTimeout     time.Duration `envconfig:"KIOSK_IDLE_TIMEOUT" default:"60s"`
		CartIdleTimeout time.Duration `envconfig:"KIOSK_CART_IDLE_TIMEOUT" default:"60s"`
		GraceTimeout    time.Duration `envconfig:"KIOSK_GRACE_TIMEOUT" default:"60s"`
	}

	Gateway struct {
		BaseURL   string `envconfig:"CRYPTO_GATEWAY_URL" default:"https://api.nowpayments.io/v1"`
		APIKey    string `envconfig:"CRYPTO_GATEWAY_API_KEY"`
		IPNSecret string `envconfig:"CRYPTO_GATEWAY_IPN_SECRET"`
	}

	POS struct {
		BaseURL string `envconfig:"POS_API_URL"`
		APIKey  string `envconfig:"POS_API_KEY"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
