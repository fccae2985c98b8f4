package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	domainconfig "wikiracer/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	EventBusName  string

	// Store selection
	StoreDriver string // "dynamodb" or "memory"

	// Remote link source
	WikiAPIURL     string
	LinksPerPage   int
	WikiTimeoutMS  int
	SearchDeadline int // milliseconds; 0 disables the overall deadline

	// Record lifecycle
	PageTTLHours int // 0 keeps the store append-only

	// Lambda configuration
	IsLambda bool

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", "wikiracer"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "wikiracer-events"),

		StoreDriver: getEnv("STORE_DRIVER", "dynamodb"),

		WikiAPIURL:     getEnv("WIKI_API_URL", "https://uk.wikipedia.org/w/api.php"),
		LinksPerPage:   getEnvInt("LINKS_PER_PAGE", 200),
		WikiTimeoutMS:  getEnvInt("WIKI_TIMEOUT_MS", 15000),
		SearchDeadline: getEnvInt("SEARCH_DEADLINE_MS", 300000),

		PageTTLHours: getEnvInt("PAGE_TTL_HOURS", 0),

		IsLambda: getEnvBool("IS_LAMBDA", false),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "wikiracer"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.WikiAPIURL == "" {
		return fmt.Errorf("WIKI_API_URL is required")
	}
	if c.LinksPerPage <= 0 {
		return fmt.Errorf("LINKS_PER_PAGE must be positive")
	}
	if c.StoreDriver != "dynamodb" && c.StoreDriver != "memory" {
		return fmt.Errorf("STORE_DRIVER must be dynamodb or memory, got %q", c.StoreDriver)
	}
	if c.Environment == "production" {
		if c.StoreDriver != "dynamodb" {
			return fmt.Errorf("STORE_DRIVER must be dynamodb in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required in production")
		}
	}

	return nil
}

// DomainConfig derives the domain-level constraints from the environment
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	dc := domainconfig.DefaultDomainConfig()
	dc.LinksPerPage = c.LinksPerPage
	dc.BacklinksPerPage = c.LinksPerPage
	dc.ProviderTimeout = time.Duration(c.WikiTimeoutMS) * time.Millisecond
	dc.SearchDeadline = time.Duration(c.SearchDeadline) * time.Millisecond
	dc.PageTTL = time.Duration(c.PageTTLHours) * time.Hour
	return dc
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
