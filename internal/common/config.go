package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store     StoreConfig
	Extractor ExtractorConfig
	Batch     BatchConfig
	Manifest  ManifestConfig
}

// StoreConfig selects and configures the tabular store backend.
type StoreConfig struct {
	Backend         string // "sheets" or "xlsx"
	SpreadsheetID   string
	TabName         string
	CredentialsPath string // service account JSON, also used for the Docs reader
	XLSXPath        string
	XLSXSheet       string
	KeyColumn       string
}

// ExtractorConfig selects and configures the extraction gateway backend.
type ExtractorConfig struct {
	Backend     string // "openai" or "gemini"
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
	GeminiKey   string
	GeminiModel string
}

// BatchConfig holds orchestration knobs.
type BatchConfig struct {
	Workers       int
	RetryAttempts int
	RetryBaseWait time.Duration
	FetchTimeout  time.Duration
}

// ManifestConfig holds result-manifest persistence settings.
type ManifestConfig struct {
	DSN string // optional SQL store; sqlite path/:memory: or postgres:// URL
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:         getEnv("STORE_BACKEND", "sheets"),
			SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
			TabName:         getEnv("SHEETS_TAB_NAME", "Sheet1"),
			CredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			XLSXPath:        getEnv("XLSX_PATH", ""),
			XLSXSheet:       getEnv("XLSX_SHEET", "Sheet1"),
			KeyColumn:       getEnv("KEY_COLUMN", "A"),
		},
		Extractor: ExtractorConfig{
			Backend:     getEnv("EXTRACTOR_BACKEND", "openai"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			GeminiKey:   getEnv("GEMINI_API_KEY", ""),
			GeminiModel: getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Batch: BatchConfig{
			Workers:       getEnvAsInt("BATCH_WORKERS", 1),
			RetryAttempts: getEnvAsInt("RETRY_ATTEMPTS", 4),
			RetryBaseWait: getEnvAsDuration("RETRY_BASE_DELAY", 500*time.Millisecond),
			FetchTimeout:  getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
		},
		Manifest: ManifestConfig{
			DSN: getEnv("MANIFEST_DSN", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "sheets":
		if c.Store.SpreadsheetID == "" {
			return NewAppError("CONFIG_ERROR", "SPREADSHEET_ID is required for the sheets backend", ErrInvalidInput)
		}
		if c.Store.CredentialsPath == "" {
			return NewAppError("CONFIG_ERROR", "GOOGLE_APPLICATION_CREDENTIALS is required for the sheets backend", ErrInvalidInput)
		}
	case "xlsx":
		if c.Store.XLSXPath == "" {
			return NewAppError("CONFIG_ERROR", "XLSX_PATH is required for the xlsx backend", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "STORE_BACKEND must be sheets or xlsx", ErrInvalidInput)
	}

	switch c.Extractor.Backend {
	case "openai":
		if c.Extractor.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the openai backend", ErrInvalidInput)
		}
	case "gemini":
		if c.Extractor.GeminiKey == "" {
			return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required for the gemini backend", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "EXTRACTOR_BACKEND must be openai or gemini", ErrInvalidInput)
	}

	if c.Batch.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be at least 1", ErrInvalidInput)
	}
	return nil
}
