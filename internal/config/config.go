package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Shopify  ShopifyConfig
	Xero     XeroConfig
	Secrets  SecretsConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// URL builds the pgx connection string
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// ShopifyConfig holds the order source configuration. Both fields empty
// means the live source is unconfigured and report runs use the sample
// dataset.
type ShopifyConfig struct {
	StoreDomain string // e.g. my-store.myshopify.com
	AccessToken string
	SamplePath  string // local fallback dataset
	Timeout     int    // request timeout in seconds
}

// XeroConfig holds accounting integration configuration
type XeroConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      int // request timeout in seconds
}

// SecretsConfig selects the secret backend. "env" reads credentials from
// the environment; "aws" pulls them from AWS Secrets Manager at startup.
type SecretsConfig struct {
	Backend string // env | aws
	Region  string
	Prefix  string // secret name prefix, e.g. "commission-service"
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "commission_service"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Shopify: ShopifyConfig{
			StoreDomain: getEnv("SHOPIFY_STORE_DOMAIN", ""),
			AccessToken: getEnv("SHOPIFY_ADMIN_ACCESS_TOKEN", ""),
			SamplePath:  getEnv("SHOPIFY_SAMPLE_PATH", "data/orders-30d.json"),
			Timeout:     getEnvAsInt("SHOPIFY_TIMEOUT", 30),
		},
		Xero: XeroConfig{
			ClientID:     getEnv("XERO_CLIENT_ID", ""),
			ClientSecret: getEnv("XERO_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("XERO_REDIRECT_URI", ""),
			Timeout:      getEnvAsInt("XERO_TIMEOUT", 30),
		},
		Secrets: SecretsConfig{
			Backend: getEnv("SECRETS_BACKEND", "env"),
			Region:  getEnv("AWS_REGION", "ap-southeast-2"),
			Prefix:  getEnv("SECRETS_PREFIX", "commission-service"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	// Validate required fields
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Secrets.Backend != "env" && cfg.Secrets.Backend != "aws" {
		return nil, fmt.Errorf("SECRETS_BACKEND must be env or aws, got %q", cfg.Secrets.Backend)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
