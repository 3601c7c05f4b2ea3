// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the pipeline.
type Config struct {
	DatabaseURL string
	RedisURL    string

	// LLM
	GeminiAPIKey string

	// Worker pools
	FetchWorkers   int // concurrent fetch workers (default 50)
	ExtractWorkers int // concurrent extraction workers (default 4)

	// Extraction
	BatchSize int // postings per LLM batch (default 20)

	// HTTP
	RequestTimeout time.Duration // per-request timeout for ATS calls

	// Queue
	LeaseDuration time.Duration // task invisibility window after claim

	// Scheduling
	ScrapeIntervalHours int // cron interval for re-enqueuing the registry

	// Proxies (optional; empty list disables proxying)
	Proxies   []ProxyEndpoint
	ProxyUser string
	ProxyPass string

	// Profile aggregation
	ProfileDebounce time.Duration
	Signals         SignalThresholds
}

// ProxyEndpoint is a single host:port entry from PROXY_LIST.
type ProxyEndpoint struct {
	Host string
	Port string
}

// SignalThresholds drives hiring-signal derivation in company profiles.
// The upstream thresholds were never formalized, so they stay configurable.
type SignalThresholds struct {
	AggressiveHiringMinJobs int     // "aggressive_hiring" when open jobs >= this
	EngineeringHeavyRatio   float64 // "engineering_heavy" when Engineering share >= this
	RemoteFriendlyRatio     float64 // "remote_friendly" when remote share >= this
}

// DefaultSignalThresholds returns the stock thresholds.
func DefaultSignalThresholds() SignalThresholds {
	return SignalThresholds{
		AggressiveHiringMinJobs: 20,
		EngineeringHeavyRatio:   0.6,
		RemoteFriendlyRatio:     0.5,
	}
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	cfg := &Config{
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		FetchWorkers:        50,
		ExtractWorkers:      4,
		BatchSize:           20,
		RequestTimeout:      15 * time.Second,
		LeaseDuration:       2 * time.Minute,
		ScrapeIntervalHours: 6,
		ProxyUser:           os.Getenv("PROXY_USER"),
		ProxyPass:           os.Getenv("PROXY_PASS"),
		ProfileDebounce:     30 * time.Second,
		Signals:             DefaultSignalThresholds(),
	}

	var err error
	if cfg.FetchWorkers, err = intEnv("FETCH_WORKERS", cfg.FetchWorkers); err != nil {
		return nil, err
	}
	if cfg.ExtractWorkers, err = intEnv("EXTRACT_WORKERS", cfg.ExtractWorkers); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = intEnv("EXTRACT_BATCH_SIZE", cfg.BatchSize); err != nil {
		return nil, err
	}
	if cfg.ScrapeIntervalHours, err = intEnv("SCRAPE_INTERVAL_HOURS", cfg.ScrapeIntervalHours); err != nil {
		return nil, err
	}
	minJobs, err := intEnv("AGGRESSIVE_HIRING_MIN_JOBS", cfg.Signals.AggressiveHiringMinJobs)
	if err != nil {
		return nil, err
	}
	cfg.Signals.AggressiveHiringMinJobs = minJobs

	if s := os.Getenv("REQUEST_TIMEOUT_SECONDS"); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil || secs < 1 {
			return nil, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be a positive integer, got %q", s)
		}
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}

	cfg.Proxies = ParseProxyList(os.Getenv("PROXY_LIST"))

	return cfg, nil
}

// ParseProxyList parses a comma-separated "host:port,host:port" string.
// Entries without a colon are skipped.
func ParseProxyList(raw string) []ProxyEndpoint {
	if raw == "" {
		return nil
	}
	var out []ProxyEndpoint
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		host, port, ok := strings.Cut(entry, ":")
		if !ok || host == "" || port == "" {
			continue
		}
		out = append(out, ProxyEndpoint{Host: host, Port: port})
	}
	return out
}

// UseProxies reports whether proxying is fully configured.
func (c *Config) UseProxies() bool {
	return len(c.Proxies) > 0 && c.ProxyUser != "" && c.ProxyPass != ""
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
