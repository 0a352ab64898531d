package config

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultSheetID = "1dYeok-Dy_7a03AhPDLV2NNmGbRNoCD3q0zaAHPwxxCE"

type Config struct {
	RunAddress      string
	SheetID         string
	Worksheet       string
	CredentialsJSON string
	CredentialsFile string
	DatabaseURI     string
	CacheTTL        time.Duration
	FetchTimeout    time.Duration
	WarmInterval    time.Duration
	StaticDir       string
	LogLevel        slog.Level
}

// New loads .env (if present), then flags, then lets environment variables
// override the flag values.
func New() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}
	return Load(os.Args[1:])
}

func Load(args []string) *Config {
	cfg := &Config{}
	var logLevel string

	fs := flag.NewFlagSet("boothorders", flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddress, "a", ":5000", "server address and port")
	fs.StringVar(&cfg.SheetID, "sheet", defaultSheetID, "Google Sheet ID")
	fs.StringVar(&cfg.Worksheet, "worksheet", "Orders", "worksheet holding the orders")
	fs.StringVar(&cfg.CredentialsFile, "c", "credentials.json", "service account credentials file")
	fs.StringVar(&cfg.DatabaseURI, "d", "", "database URI of the sheet_rows mirror, filled by an external sync job (empty = use Google Sheets)")
	fs.DurationVar(&cfg.CacheTTL, "ttl", 120*time.Second, "cache time-to-live")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", 10*time.Second, "timeout for reading the sheet")
	fs.DurationVar(&cfg.WarmInterval, "warm", 0, "interval for refreshing the order cache in the background (0 = off)")
	fs.StringVar(&cfg.StaticDir, "static", "frontend/build", "directory of the built frontend")
	fs.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		slog.Warn("invalid flags, using defaults", "error", err)
	}

	if port := getEnv("PORT", ""); port != "" {
		cfg.RunAddress = ":" + port
	}
	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.SheetID = getEnv("SHEET_ID", cfg.SheetID)
	cfg.Worksheet = getEnv("WORKSHEET", cfg.Worksheet)
	cfg.CredentialsJSON = getEnv("GOOGLE_CREDENTIALS_JSON", "")
	cfg.CredentialsFile = getEnv("GOOGLE_CREDENTIALS_FILE", cfg.CredentialsFile)
	cfg.DatabaseURI = getEnv("DATABASE_URI", cfg.DatabaseURI)
	cfg.CacheTTL = getDurationEnv("CACHE_TTL", cfg.CacheTTL)
	cfg.FetchTimeout = getDurationEnv("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.WarmInterval = getDurationEnv("WARM_INTERVAL", cfg.WarmInterval)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	logLevel = getEnv("LOG_LEVEL", logLevel)

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}
