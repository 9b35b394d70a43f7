package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Logging  LoggingConfig
	Contact  ContactConfig
	OpenAlex SourceConfig
	Crossref SourceConfig
	Digest   DigestConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

type ContactConfig struct {
	// Email sent to upstream APIs via mailto so they can reach us
	// about traffic. Both OpenAlex and Crossref treat requests
	// carrying it more generously.
	Email string
}

type SourceConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second
	Burst     int
}

type DigestConfig struct {
	LookupTimeout     time.Duration // ISSN resolution budget
	PrimaryMaxPages   int
	SecondaryMaxPages int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvMulti([]string{"PORT", "SERVER_PORT"}, "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getSliceEnv("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Contact: ContactConfig{
			Email: getEnv("PD_MAILTO", "contact@paperdigest.dev"),
		},
		OpenAlex: SourceConfig{
			BaseURL:   getEnv("OPENALEX_BASE_URL", "https://api.openalex.org"),
			Timeout:   getDurationEnv("OPENALEX_TIMEOUT", 30*time.Second),
			RateLimit: getFloatEnv("OPENALEX_RATE_LIMIT", 10),
			Burst:     getIntEnv("OPENALEX_BURST", 10),
		},
		Crossref: SourceConfig{
			BaseURL:   getEnv("CROSSREF_BASE_URL", "https://api.crossref.org"),
			Timeout:   getDurationEnv("CROSSREF_TIMEOUT", 30*time.Second),
			RateLimit: getFloatEnv("CROSSREF_RATE_LIMIT", 5),
			Burst:     getIntEnv("CROSSREF_BURST", 5),
		},
		Digest: DigestConfig{
			LookupTimeout:     getDurationEnv("JOURNAL_LOOKUP_TIMEOUT", 10*time.Second),
			PrimaryMaxPages:   getIntEnv("OPENALEX_MAX_PAGES", 8),
			SecondaryMaxPages: getIntEnv("CROSSREF_MAX_PAGES", 2),
		},
	}
}

// UserAgent identifies the service to upstream APIs.
func (c *Config) UserAgent() string {
	return fmt.Sprintf("PaperDigest/0.8 (+mailto:%s)", c.Contact.Email)
}

func getEnvMulti(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
