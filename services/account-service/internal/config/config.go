package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// AccountServiceConfig holds the account service configuration parsed from
// environment variables.
type AccountServiceConfig struct {
	ServerHost    string `env:"SERVER_HOST"    envDefault:"0.0.0.0"`
	ServerPort    int    `env:"SERVER_PORT"    envDefault:"3000"`
	MongoURI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"account-api"`

	// AppBaseURL is the public base URL of the front-end application.
	// Confirmation and password reset links embedded in emails point here.
	AppBaseURL string `env:"APP_BASE_URL"`

	// MasterPassword is an operational escape hatch: when set, it
	// authenticates any confirmed account. Disabled when empty, which is
	// the default. See DESIGN.md before enabling this in any deployment.
	MasterPassword string `env:"MASTER_PASSWORD"`

	Token TokenConfig `envPrefix:"TOKEN_"`
	Email EmailConfig `envPrefix:"EMAIL_"`
}

// TokenConfig holds the lifetimes and signing parameters for every token the
// service issues.
type TokenConfig struct {
	SessionTokenSecret    string        `env:"SESSION_SECRET"`
	SessionTokenExpiresIn time.Duration `env:"SESSION_EXPIRES_IN" envDefault:"720h"`

	// SessionTokenVersion is embedded in every issued session token.
	// Bumping it invalidates all outstanding tokens at once.
	SessionTokenVersion int `env:"SESSION_VERSION" envDefault:"1"`

	Issuer string `env:"ISSUER" envDefault:"account-api"`

	ConfirmationTokenExpiresIn  time.Duration `env:"CONFIRMATION_EXPIRES_IN"   envDefault:"1h"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_EXPIRES_IN" envDefault:"1h"`
}

// EmailConfig holds the subject lines for outbound notification emails.
type EmailConfig struct {
	ConfirmAccountSubject string `env:"CONFIRM_ACCOUNT_SUBJECT" envDefault:"Account confirmation"`
	PasswordResetSubject  string `env:"PASSWORD_RESET_SUBJECT"  envDefault:"Password Reset"`
}

// NewAccountServiceConfig creates an AccountServiceConfig instance from
// environment variables.
func NewAccountServiceConfig(logger *zerolog.Logger) *AccountServiceConfig {
	cfg, err := env.ParseAs[AccountServiceConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate account service configuration")
	}

	return &cfg
}

// validate checks if the account service configuration is valid.
func (c *AccountServiceConfig) validate() error {
	if c.Token.SessionTokenSecret == "" {
		return fmt.Errorf("missing TOKEN_SESSION_SECRET environment variable")
	}
	if c.AppBaseURL == "" {
		return fmt.Errorf("missing APP_BASE_URL environment variable")
	}

	return nil
}
