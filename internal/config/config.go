package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Card     CardConfig     `mapstructure:"card"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// Access and refresh tokens are signed with distinct secrets.
type AuthConfig struct {
	AccessTokenSecret  string `mapstructure:"access_token_secret"  validate:"required,min=32"`
	RefreshTokenSecret string `mapstructure:"refresh_token_secret" validate:"required,min=32,nefield=AccessTokenSecret"`

	// AccessTokenLifetimeMinutes is the access token TTL. It also bounds
	// how long a logged-out token stays on the blacklist.
	AccessTokenLifetimeMinutes int `mapstructure:"access_token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the refresh token TTL.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// TokenCleanupSchedule is the cron expression for the expired
	// refresh-token purge job.
	TokenCleanupSchedule string `mapstructure:"token_cleanup_schedule" validate:"required"`
}

// CardConfig contains card issuing settings.
type CardConfig struct {
	// DefaultValidityYears is used when a card creation request does not
	// specify a validity period.
	DefaultValidityYears int `mapstructure:"default_validity_years" validate:"required,gt=0"`
}
