package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendLocal     = "local"
	BackendFederated = "federated"

	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	// Backend selects the identity backend: "local" or "federated".
	Backend string `env:"IDENTITY_BACKEND" envDefault:"local"`

	// LocalDriver selects the local-store driver: "postgres" or "mongo".
	LocalDriver string `env:"LOCAL_STORE_DRIVER" envDefault:"postgres"`

	// MachineID discriminates id generators across instances.
	MachineID int64 `env:"MACHINE_ID" envDefault:"1"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"accounts"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	CaptchaSecret    string        `env:"CAPTCHA_SECRET"`
	CaptchaVerifyURL string        `env:"CAPTCHA_VERIFY_URL" envDefault:"https://hcaptcha.com/siteverify"`
	CaptchaTimeout   time.Duration `env:"CAPTCHA_TIMEOUT" envDefault:"10s"`

	ProviderIssuer       string `env:"PROVIDER_ISSUER"`
	ProviderClientID     string `env:"PROVIDER_CLIENT_ID"`
	ProviderClientSecret string `env:"PROVIDER_CLIENT_SECRET"`
	ProviderAdminBaseURL string `env:"PROVIDER_ADMIN_BASE_URL"`

	// SessionTTL bounds the provider session artifact, not the bearer token.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"120h"`

	RedirectPath string `env:"REDIRECT_PATH" envDefault:"/interchat/es"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendLocal:
		switch c.LocalDriver {
		case DriverPostgres, DriverMongo:
		default:
			return fmt.Errorf("unknown local store driver %q", c.LocalDriver)
		}
	case BackendFederated:
		if c.ProviderIssuer == "" || c.ProviderClientID == "" {
			return errors.New("federated backend requires provider issuer and client id")
		}
	default:
		return fmt.Errorf("unknown identity backend %q", c.Backend)
	}
	return nil
}
