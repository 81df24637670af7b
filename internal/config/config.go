package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Games    GamesConfig    `mapstructure:"games"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
	DataDir       string `mapstructure:"data_dir"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// BackendConfig holds the external EEG/score backend endpoints.
// The degraded URL is the one-shot retry target when the primary fails.
type BackendConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	DegradedBaseURL string `mapstructure:"degraded_base_url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// GamesConfig holds the tuning knobs for the mini-game engines.
type GamesConfig struct {
	RevealIntervalMs    int `mapstructure:"reveal_interval_ms"`
	PairsFlipBackMs     int `mapstructure:"pairs_flip_back_ms"`
	AttentionDurationS  int `mapstructure:"attention_duration_s"`
	AttentionSwitchS    int `mapstructure:"attention_switch_s"`
	SessionTTLMinutes   int `mapstructure:"session_ttl_minutes"`
	RegistrationSeconds int `mapstructure:"registration_seconds"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5060")
	v.SetDefault("server.session_secret", "change-me-in-production")
	v.SetDefault("server.data_dir", "data")

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "synapse-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// External backend defaults
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.degraded_base_url", "http://localhost:8001")
	v.SetDefault("backend.timeout_seconds", 10)

	// Game engine defaults, matching the timings the frontend animates
	v.SetDefault("games.reveal_interval_ms", 800)
	v.SetDefault("games.pairs_flip_back_ms", 1000)
	v.SetDefault("games.attention_duration_s", 60)
	v.SetDefault("games.attention_switch_s", 30)
	v.SetDefault("games.session_ttl_minutes", 30)
	v.SetDefault("games.registration_seconds", 10)
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("SYNAPSE") // e.g., SYNAPSE_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
