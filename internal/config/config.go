package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mroshb/lunchmate/internal/relax"
)

// Profile store backends
const (
	ProfileStoreMemory   = "memory"
	ProfileStorePostgres = "postgres"
)

type Config struct {
	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// Matching
	MatchTimeoutSeconds       int
	RelaxationIntervalSeconds int
	MaxGroupSize              int
	AgeTolerance              int
	StrictPreferences         bool
	AlternateRestaurants      int
	SweepSchedule             string
	RestaurantCatalog         string

	// Rate Limiting
	RateLimitPerUser int
	RateLimitPerIP   int

	// Profiles
	ProfileStore string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string

	// Telegram
	BotToken     string
	NotifyChatID int64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "3001"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MatchTimeoutSeconds:       getEnvInt("MATCH_TIMEOUT_SECONDS", 300),
		RelaxationIntervalSeconds: getEnvInt("RELAXATION_INTERVAL_SECONDS", 60),
		MaxGroupSize:              getEnvInt("MAX_GROUP_SIZE", 4),
		AgeTolerance:              getEnvInt("AGE_TOLERANCE", 5),
		StrictPreferences:         getEnvBool("STRICT_PREFERENCES", false),
		AlternateRestaurants:      getEnvInt("ALTERNATE_RESTAURANTS", 2),
		SweepSchedule:             getEnv("SWEEP_SCHEDULE", "@every 5s"),
		RestaurantCatalog:         getEnv("RESTAURANT_CATALOG", ""),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),
		RateLimitPerIP:   getEnvInt("RATE_LIMIT_PER_IP", 100),

		ProfileStore: getEnv("PROFILE_STORE", ProfileStoreMemory),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "lunchmate"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "lunchmate_db"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),

		BotToken: getEnv("BOT_TOKEN", ""),
	}

	// Parse notification chat ID
	chatStr := getEnv("NOTIFY_CHAT_ID", "")
	if chatStr != "" {
		id, err := strconv.ParseInt(chatStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid NOTIFY_CHAT_ID: %w", err)
		}
		cfg.NotifyChatID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MatchTimeoutSeconds <= 0 {
		return fmt.Errorf("MATCH_TIMEOUT_SECONDS must be positive")
	}
	if c.RelaxationIntervalSeconds <= 0 {
		return fmt.Errorf("RELAXATION_INTERVAL_SECONDS must be positive")
	}
	if c.RelaxationIntervalSeconds >= c.MatchTimeoutSeconds {
		return fmt.Errorf("RELAXATION_INTERVAL_SECONDS must be shorter than MATCH_TIMEOUT_SECONDS")
	}
	if c.MaxGroupSize < 2 || c.MaxGroupSize > 4 {
		return fmt.Errorf("MAX_GROUP_SIZE must be between 2 and 4")
	}
	if c.AgeTolerance < 0 {
		return fmt.Errorf("AGE_TOLERANCE must not be negative")
	}
	if c.AlternateRestaurants < 0 {
		return fmt.Errorf("ALTERNATE_RESTAURANTS must not be negative")
	}
	if c.SweepSchedule == "" {
		return fmt.Errorf("SWEEP_SCHEDULE is required")
	}
	switch c.ProfileStore {
	case ProfileStoreMemory:
	case ProfileStorePostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres profile store")
		}
	default:
		return fmt.Errorf("unknown PROFILE_STORE %q", c.ProfileStore)
	}
	if c.BotToken != "" && c.NotifyChatID == 0 {
		return fmt.Errorf("NOTIFY_CHAT_ID is required when BOT_TOKEN is set")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.ProfileStore == ProfileStorePostgres && c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) NotificationsEnabled() bool {
	return c.BotToken != "" && c.NotifyChatID != 0
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetMatchTimeout() time.Duration {
	return time.Duration(c.MatchTimeoutSeconds) * time.Second
}

func (c *Config) GetRelaxationInterval() time.Duration {
	return time.Duration(c.RelaxationIntervalSeconds) * time.Second
}

// RelaxPolicy builds the relaxation policy from the matching settings.
func (c *Config) RelaxPolicy() relax.Policy {
	return relax.Policy{
		Interval: c.GetRelaxationInterval(),
		MaxWait:  c.GetMatchTimeout(),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
