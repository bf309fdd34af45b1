package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"ledgerly/internal/core"

	"github.com/Rhymond/go-money"
)

type Config struct {
	// HTTP Server
	Port     string
	LogLevel string

	// TrustedProxies are extra CIDRs whose forwarding headers are honored.
	TrustedProxies string

	// Persistence
	DataBackend     string
	SQLiteDBPath    string
	DataDirectory   string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// AMQP change events (disabled when URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror (disabled when spreadsheet id is empty)
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Worker
	SyncInterval time.Duration

	// Ledger and metrics
	DefaultCurrency   string
	MetricsPeriod     time.Duration
	MetricsSpentTypes string

	// Insights
	InsightProvider  string
	GeminiAPIKey     string
	GeminiModel      string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	InsightTimeout   time.Duration
	InsightRateLimit int
}

func Load() *Config {
	serviceAccountFile := getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	if serviceAccountFile == "" {
		serviceAccountFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")
	}

	return &Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		TrustedProxies: getEnv("TRUSTED_PROXIES", ""),

		DataBackend:     getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/ledgerly.db"),
		DataDirectory:   getEnv("DATA_DIRECTORY", "./data"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "ledgerly"),
		MongoCollection: getEnv("MONGO_COLLECTION", "kv"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledgerly"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_changes"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Transactions"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: serviceAccountFile,

		SyncInterval: getEnvDuration("SYNC_INTERVAL", 5*time.Minute),

		DefaultCurrency:   strings.ToUpper(getEnv("DEFAULT_CURRENCY", core.DefaultCurrency)),
		MetricsPeriod:     getEnvDuration("METRICS_PERIOD", 30*24*time.Hour),
		MetricsSpentTypes: getEnv("METRICS_SPENT_TYPES", "expense,saving,investment"),

		InsightProvider:  strings.ToLower(getEnv("INSIGHT_PROVIDER", "none")),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		InsightTimeout:   getEnvDuration("INSIGHT_TIMEOUT", 60*time.Second),
		InsightRateLimit: getEnvInt("INSIGHT_RATE_LIMIT", 10),
	}
}

// ValidBackends lists the accepted DATA_BACKEND values.
var ValidBackends = []string{"sqlite", "file", "mongo", "memory", "none"}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	for _, cidr := range SplitList(c.TrustedProxies) {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR", cidr))
		}
	}

	isValidBackend := false
	for _, backend := range ValidBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, ValidBackends))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "file":
		if c.DataDirectory == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case "mongo":
		if c.MongoURI == "" {
			errors = append(errors, "MONGO_URI is required when using mongo backend")
		}
		if c.MongoDatabase == "" || c.MongoCollection == "" {
			errors = append(errors, "MONGO_DATABASE and MONGO_COLLECTION cannot be empty when using mongo backend")
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet id is set")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for the sheets mirror")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if money.GetCurrency(c.DefaultCurrency) == nil {
		errors = append(errors, fmt.Sprintf("unknown default currency '%s'", c.DefaultCurrency))
	}

	if c.MetricsPeriod < time.Hour {
		errors = append(errors, fmt.Sprintf("invalid metrics period %v: must be at least 1 hour", c.MetricsPeriod))
	}
	if types := SplitList(c.MetricsSpentTypes); len(types) == 0 {
		errors = append(errors, "METRICS_SPENT_TYPES cannot be empty")
	} else {
		for _, t := range types {
			if !core.TransactionType(t).Valid() {
				errors = append(errors, fmt.Sprintf("invalid spent type '%s' in METRICS_SPENT_TYPES", t))
			}
		}
	}

	switch c.InsightProvider {
	case "none":
	case "gemini":
		if c.GeminiAPIKey == "" {
			errors = append(errors, "GEMINI_API_KEY is required when INSIGHT_PROVIDER is gemini")
		}
	case "openai":
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			errors = append(errors, "OPENAI_API_KEY or OPENAI_BASE_URL is required when INSIGHT_PROVIDER is openai")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid insight provider '%s': must be none, gemini or openai", c.InsightProvider))
	}
	if c.InsightTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid insight timeout %v: must be positive", c.InsightTimeout))
	}
	if c.InsightRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid insight rate limit %d: must be at least 1", c.InsightRateLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SplitList splits a comma separated env value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
