package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"carequeue/internal/shared/constants"
)

// Config holds all configuration for the scheduler service
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// JWT configuration
	JWT JWTConfig

	// Queue behaviour
	Queue QueueConfig

	// Kafka lifecycle events
	Kafka KafkaConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// TTL values for different operations
	BoardCacheTTL     time.Duration
	AnalyticsCacheTTL time.Duration
	CounterTTL        time.Duration
}

// JWTConfig holds JWT configuration. Tokens are issued by the identity
// service; the scheduler only verifies them.
type JWTConfig struct {
	Secret string
}

// QueueConfig holds scheduler policy knobs
type QueueConfig struct {
	// MaxSkipCount is the number of skips after which an entry auto-cancels.
	MaxSkipCount int
	// DefaultAvgServiceMinutes seeds new stations' wait estimates.
	DefaultAvgServiceMinutes int
	// DisplayBoardSize is how many upcoming entries the public board shows.
	DisplayBoardSize int
	// TransferRetriage re-runs the priority classifier at the destination
	// station on transfer. Off by default: the entry keeps its priority.
	TransferRetriage bool
	// TokenPadWidth is the zero-pad width for token display (CON-015).
	TokenPadWidth int
}

// KafkaConfig holds lifecycle event publishing configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled          bool          `json:"enabled"`
	WindowDuration   time.Duration `json:"window_duration"`
	DefaultRequests  int           `json:"default_requests"`
	BoardRequests    int           `json:"board_requests"`
	OperatorRequests int           `json:"operator_requests"`
	AdminRequests    int           `json:"admin_requests"`
	WhitelistedIPs   []string      `json:"whitelisted_ips"`
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "carequeue_db"),
			User:     getEnv("DB_USER", "carequeue_user"),
			Password: getEnv("DB_PASSWORD", "carequeue_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			BoardCacheTTL:     getDurationEnv("REDIS_BOARD_CACHE_TTL", constants.TTLBoard),
			AnalyticsCacheTTL: getDurationEnv("REDIS_ANALYTICS_CACHE_TTL", constants.TTLAnalyticsRange),
			// Daily counters must outlive the day they belong to.
			CounterTTL: getDurationEnv("REDIS_COUNTER_TTL", constants.TTLDailyCounter),
		},

		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
		},

		Queue: QueueConfig{
			MaxSkipCount:             getIntEnv("QUEUE_MAX_SKIP_COUNT", 3),
			DefaultAvgServiceMinutes: getIntEnv("QUEUE_DEFAULT_AVG_SERVICE_MINUTES", 10),
			DisplayBoardSize:         getIntEnv("QUEUE_DISPLAY_BOARD_SIZE", 5),
			TransferRetriage:         getBoolEnv("QUEUE_TRANSFER_RETRIAGE", false),
			TokenPadWidth:            getIntEnv("QUEUE_TOKEN_PAD_WIDTH", 3),
		},

		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_QUEUE_EVENTS_TOPIC", "queue-lifecycle-events"),
			GroupID: getEnv("KAFKA_CONSUMER_GROUP", "carequeue-audit"),
		},

		RateLimit: RateLimitConfig{
			Enabled:          getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:   getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:  getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			BoardRequests:    getIntEnv("RATE_LIMIT_BOARD_REQUESTS", 120),
			OperatorRequests: getIntEnv("RATE_LIMIT_OPERATOR_REQUESTS", 100),
			AdminRequests:    getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
			WhitelistedIPs:   getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
