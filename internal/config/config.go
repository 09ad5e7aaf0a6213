package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Economy EconomyConfig `mapstructure:"economy" validate:"required"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel       string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// DevTools enables the developer panel routes (coin grant, reset).
	DevTools bool `mapstructure:"dev_tools"`
}

// StorageConfig selects and configures the key/value backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres"`
	// URL is the PostgreSQL connection string, required for the postgres driver.
	URL string `mapstructure:"url" validate:"required_if=Driver postgres,omitempty,url"`
	// Path is the SQLite database file, required for the sqlite driver.
	Path string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// EconomyConfig holds the tunable constants of the coin economy.
type EconomyConfig struct {
	PetLifespan   time.Duration `mapstructure:"pet_lifespan" validate:"gt=0"`
	FeedCost      int           `mapstructure:"feed_cost" validate:"gte=0"`
	FeedBonus     time.Duration `mapstructure:"feed_bonus" validate:"gt=0"`
	FlipReward    int           `mapstructure:"flip_reward" validate:"gte=0"`
	TypeReward    int           `mapstructure:"type_reward" validate:"gte=0"`
	GameReward    int           `mapstructure:"game_reward" validate:"gte=0"`
	DevGrant      int           `mapstructure:"dev_grant" validate:"gte=0"`
	ImageMaxBytes int           `mapstructure:"image_max_bytes" validate:"gt=0"`
}

// WatchConfig controls the background pet watcher.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval" validate:"required_if=Enabled true,omitempty,gte=1s"`
}
