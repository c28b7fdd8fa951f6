package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	// Seconds allowed for in-flight requests to finish on shutdown
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	// Apply pending migrations before serving
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains session and password settings.
type AuthConfig struct {
	// SessionSecret signs the session cookie
	SessionSecret          string `mapstructure:"session_secret"           validate:"required,min=32"`
	SessionLifetimeMinutes int    `mapstructure:"session_lifetime_minutes" validate:"gte=1"`
	BcryptCost             int    `mapstructure:"bcrypt_cost"              validate:"gte=4,lte=31"`
	CookieSecure           bool   `mapstructure:"cookie_secure"`
}

// RedisConfig points at the server-side session store.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}
