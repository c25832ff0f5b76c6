package config

import (
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Address    string `env:"ADDRESS" envDefault:"0.0.0.0:9090"`
	Secret     string `env:"SECRET,required"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`

	BcryptHasherCost           int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetValidDuration time.Duration `env:"PASSWORD_RESET_VALID_DURATION" envDefault:"1h"`

	AwsRegion    string `env:"AWS_REGION,required"`
	AwsAccessKey string `env:"AWS_ACCESS_KEY,required"`
	AwsSecretKey string `env:"AWS_SECRET_KEY,required"`

	AwsEmailSender                  string  `env:"AWS_EMAIL_SENDER,required"`
	AwsEmailPasswordResetTemplate   string  `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE,required"`
	AwsEmailPasswordChangedTemplate string  `env:"AWS_EMAIL_PASSWORD_CHANGED_TEMPLATE,required"`
	PasswordResetBaseURL            url.URL `env:"PASSWORD_RESET_BASE_URL,required"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
