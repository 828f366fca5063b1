package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	PublicBaseURL       string
	GatewayAPIURL       string
	WhatsAppAPIURL      string
	FilesBucket         string
	AWSRegion           string
	AdminKeyHash        string
	Currency            string
	TokenTTL            time.Duration
	MaxDownloads        int
	DefaultCountryCode  string
	ReconcileCandidates int
	BackfillInterval    time.Duration
	BackfillBatch       int
	WorkerPoolSize      int
	UpstreamTimeout     time.Duration
	ShutdownTimeout     time.Duration
	LogLevel            string
}

const (
	defaultRunAddress          = ":8080"
	defaultPublicBaseURL       = "http://localhost:8080"
	defaultGatewayAPIURL       = "https://api.razorpay.com"
	defaultWhatsAppAPIURL      = "https://graph.facebook.com/v18.0"
	defaultAWSRegion           = "us-east-1"
	defaultCurrency            = "INR"
	defaultTokenTTL            = 7 * 24 * time.Hour
	defaultMaxDownloads        = 3
	defaultCountryCode         = "91"
	defaultReconcileCandidates = 5
	defaultBackfillInterval    = 30 * time.Second
	defaultBackfillBatch       = 16
	defaultWorkerPoolSize      = 2
	defaultUpstreamTimeout     = 10 * time.Second
	defaultShutdownTimeout     = 10 * time.Second
	defaultLogLevel            = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		PublicBaseURL:       getString(lookup, "PUBLIC_BASE_URL", defaultPublicBaseURL),
		GatewayAPIURL:       getString(lookup, "GATEWAY_API_URL", defaultGatewayAPIURL),
		WhatsAppAPIURL:      getString(lookup, "WHATSAPP_API_URL", defaultWhatsAppAPIURL),
		FilesBucket:         getString(lookup, "FILES_BUCKET", ""),
		AWSRegion:           getString(lookup, "AWS_REGION", defaultAWSRegion),
		AdminKeyHash:        getString(lookup, "ADMIN_KEY_HASH", ""),
		Currency:            getString(lookup, "CURRENCY", defaultCurrency),
		TokenTTL:            getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		MaxDownloads:        getInt(lookup, "MAX_DOWNLOADS", defaultMaxDownloads),
		DefaultCountryCode:  getString(lookup, "DEFAULT_COUNTRY_CODE", defaultCountryCode),
		ReconcileCandidates: getInt(lookup, "RECONCILE_CANDIDATES", defaultReconcileCandidates),
		BackfillInterval:    getDuration(lookup, "BACKFILL_INTERVAL", defaultBackfillInterval),
		BackfillBatch:       getInt(lookup, "BACKFILL_BATCH", defaultBackfillBatch),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		UpstreamTimeout:     getDuration(lookup, "UPSTREAM_TIMEOUT", defaultUpstreamTimeout),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("digistore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr         = cfg.TokenTTL.String()
		backfillIntervalStr = cfg.BackfillInterval.String()
		shutdownTimeoutStr  = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", cfg.PublicBaseURL, "Public base URL used in download links")
	fs.StringVar(&cfg.FilesBucket, "bucket", cfg.FilesBucket, "S3 bucket holding product files")
	fs.IntVar(&cfg.MaxDownloads, "max-downloads", cfg.MaxDownloads, "Downloads allowed per token")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Download token lifetime")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent backfill workers")
	fs.StringVar(&backfillIntervalStr, "backfill-interval", backfillIntervalStr, "Interval between token backfill passes")
	fs.IntVar(&cfg.BackfillBatch, "backfill-batch", cfg.BackfillBatch, "Maximum orders per backfill pass")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.BackfillInterval, err = time.ParseDuration(backfillIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid backfill interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if hashFile, ok := lookup("ADMIN_KEY_HASH_FILE"); ok && hashFile != "" {
		content, err := os.ReadFile(hashFile)
		if err != nil {
			return nil, fmt.Errorf("read admin key hash file: %w", err)
		}
		cfg.AdminKeyHash = strings.TrimSpace(string(content))
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.GatewayAPIURL = strings.TrimRight(cfg.GatewayAPIURL, "/")
	cfg.WhatsAppAPIURL = strings.TrimRight(cfg.WhatsAppAPIURL, "/")

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.MaxDownloads <= 0 {
		cfg.MaxDownloads = defaultMaxDownloads
	}

	if cfg.ReconcileCandidates <= 0 {
		cfg.ReconcileCandidates = defaultReconcileCandidates
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.BackfillBatch <= 0 {
		cfg.BackfillBatch = defaultBackfillBatch
	}

	if cfg.BackfillInterval <= 0 {
		cfg.BackfillInterval = defaultBackfillInterval
	}

	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = defaultUpstreamTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
