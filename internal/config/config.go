// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultVideosDir                 = "./signage/content/videos"
	defaultSlidesDir                 = "./signage/cache/slides"
	defaultModeFile                  = "./signage/config.json"
	defaultSelectionFile             = "./signage/playlist.json"
	defaultCommandsDir               = "./signage/commands"
	defaultSlideDuration             = 10 * time.Second
	defaultVideoDuration             = 30 * time.Second
	defaultProbeEnabled              = true
	defaultProbeTimeout              = 30 * time.Second
	defaultDatabasePath              = "./data/marquee.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseEnableWAL         = true
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	envPrefix                        = "MARQUEE"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Content  ContentConfig
	Playback PlaybackConfig
	Probe    ProbeConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ContentConfig holds the locations of the media library on disk
type ContentConfig struct {
	VideosDir     string
	SlidesDir     string
	ModeFile      string
	SelectionFile string
	CommandsDir   string
}

// PlaybackConfig holds the timing rules applied when building playlists
type PlaybackConfig struct {
	SlideDuration        time.Duration
	DefaultVideoDuration time.Duration
}

// ProbeConfig controls ffprobe-based duration measurement
type ProbeConfig struct {
	Enabled bool
	Timeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	EnableWAL         bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// Load .env file if present (optional, won't error if missing)
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/marquee")

	// Environment variable settings
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	// Content defaults
	v.SetDefault("content.videosdir", defaultVideosDir)
	v.SetDefault("content.slidesdir", defaultSlidesDir)
	v.SetDefault("content.modefile", defaultModeFile)
	v.SetDefault("content.selectionfile", defaultSelectionFile)
	v.SetDefault("content.commandsdir", defaultCommandsDir)

	// Playback defaults
	v.SetDefault("playback.slideduration", defaultSlideDuration)
	v.SetDefault("playback.defaultvideoduration", defaultVideoDuration)

	// Probe defaults
	v.SetDefault("probe.enabled", defaultProbeEnabled)
	v.SetDefault("probe.timeout", defaultProbeTimeout)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	// Validate server port
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	// Validate timeout durations
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	// Validate content paths
	if c.Content.VideosDir == "" {
		return fmt.Errorf("content videos dir must not be empty")
	}
	if c.Content.SlidesDir == "" {
		return fmt.Errorf("content slides dir must not be empty")
	}

	// Validate playback timing
	if c.Playback.SlideDuration <= 0 {
		return fmt.Errorf("invalid slide duration: %v (must be > 0)", c.Playback.SlideDuration)
	}
	if c.Playback.DefaultVideoDuration <= 0 {
		return fmt.Errorf("invalid default video duration: %v (must be > 0)", c.Playback.DefaultVideoDuration)
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("invalid probe timeout: %v (must be > 0)", c.Probe.Timeout)
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
