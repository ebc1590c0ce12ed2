package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	// Locale selects the language of user-facing notifications.
	Locale string
	State  *StateConfig
	Server ServerConfig
}

// ServerConfig holds settings for the local HTTP server.
type ServerConfig struct {
	ListenAddr     string
	LoadRatePerSec float64
	LoadBurst      int64
	// SaveInterval is how often the instance state is checkpointed. Zero
	// disables the checkpoint job.
	SaveInterval   time.Duration
	AllowedOrigins []string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithLocale(locale string) Option {
	return func(c *Config) {
		if locale != "" {
			c.Locale = locale
		}
	}
}

func WithStateConfig(state *StateConfig) Option {
	return func(c *Config) {
		if state != nil {
			c.State = state
		}
	}
}

func WithServer(server ServerConfig) Option {
	return func(c *Config) {
		c.Server = server
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment: "production",
		LogLevel:    zerolog.InfoLevel,
		HTTPTimeout: 10 * time.Second,
		Locale:      "en",
		State:       DefaultStateConfig(),
		Server: ServerConfig{
			ListenAddr:     ":8080",
			LoadRatePerSec: 1,
			LoadBurst:      5,
			SaveInterval:   time.Minute,
			AllowedOrigins: []string{"*"},
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithLocale(getEnvOrDefault("LOCALE", "en")),
		WithStateConfig(GetStateConfig()),
		WithServer(ServerConfig{
			ListenAddr:     getEnvOrDefault("LISTEN_ADDR", ":8080"),
			LoadRatePerSec: getEnvFloat("LOAD_RATE_PER_SEC", 1),
			LoadBurst:      int64(getEnvInt("LOAD_BURST", 5)),
			SaveInterval:   getDurationEnvOrDefault("STATE_SAVE_INTERVAL", time.Minute),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		}),
	)
}

// Load reads .env, the environment and, when CONFIG_FILE is set, a YAML file
// whose values take precedence over the environment.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := LoadFromEnv()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Msg("Invalid float value in environment variable, using default")
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultVal
	}
	return list
}
