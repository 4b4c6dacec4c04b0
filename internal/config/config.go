// Package config provides configuration loading from environment variables,
// with an optional YAML overlay file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tool output limit defaults
const (
	DefaultPageSizeValue   = 30
	DefaultQueryLimitValue = 200
	DefaultInfoTopNValue   = 15
)

// Processing safety cap defaults
const (
	MaxQueryResultsValue = 10000
	MaxBatchSizeValue    = 100
)

// Config holds all configuration for the MCP server.
type Config struct {
	Endpoint          string        // CARDSTABLE_ENDPOINT, default client.DefaultBaseURL
	Mirrors           []string      // CARDSTABLE_MIRRORS, comma-separated fallback endpoints
	HTTPClientTimeout time.Duration // CARDSTABLE_HTTP_TIMEOUT_MS, default 30000ms (30s)

	CacheEnabled bool          // CARDSTABLE_CACHE_ENABLED, default true
	CacheTTL     time.Duration // CARDSTABLE_CACHE_TTL_MS, default 300000ms (5m)

	PageSize      int    // CARDSTABLE_PAGE_SIZE, default 30
	DefaultSort   string // CARDSTABLE_DEFAULT_SORT, default "dateupdate"
	NSFWVisible   bool   // CARDSTABLE_NSFW_VISIBLE, default false
	ShowTagCounts bool   // CARDSTABLE_SHOW_TAG_COUNTS, default true

	DownloadWorkers   int    // CARDSTABLE_DOWNLOAD_WORKERS, default 4
	DownloadDir       string // CARDSTABLE_DOWNLOAD_DIR, default "" (DirImporter falls back to ./cards)
	CardCacheMaxItems int    // CARDSTABLE_CARD_CACHE_MAX_ITEMS, default 64
	MaxBatchSize      int    // CARDSTABLE_MAX_BATCH_SIZE, default 100

	SettingsDB string // CARDSTABLE_SETTINGS_DB, default "" (in-memory settings)

	// Tool output limits
	DefaultQueryLimit int // CARDSTABLE_DEFAULT_QUERY_LIMIT
	InfoTopN          int // CARDSTABLE_INFO_TOP_N, top-N size for tag/author stats

	// Processing safety caps
	MaxQueryResults int // CARDSTABLE_MAX_QUERY_RESULTS, default 10000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
// When CARDSTABLE_CONFIG names a YAML file, its values overlay the
// environment before the result is returned.
func Load() (*Config, error) {
	cfg := &Config{
		Endpoint:          getEnvString("CARDSTABLE_ENDPOINT", ""),
		Mirrors:           getEnvList("CARDSTABLE_MIRRORS"),
		HTTPClientTimeout: getEnvDurationMs("CARDSTABLE_HTTP_TIMEOUT_MS", 30000),

		CacheEnabled: getEnvBool("CARDSTABLE_CACHE_ENABLED", true),
		CacheTTL:     getEnvDurationMs("CARDSTABLE_CACHE_TTL_MS", 300000),

		PageSize:      getEnvInt("CARDSTABLE_PAGE_SIZE", DefaultPageSizeValue),
		DefaultSort:   getEnvString("CARDSTABLE_DEFAULT_SORT", "dateupdate"),
		NSFWVisible:   getEnvBool("CARDSTABLE_NSFW_VISIBLE", false),
		ShowTagCounts: getEnvBool("CARDSTABLE_SHOW_TAG_COUNTS", true),

		DownloadWorkers:   getEnvInt("CARDSTABLE_DOWNLOAD_WORKERS", 4),
		DownloadDir:       getEnvString("CARDSTABLE_DOWNLOAD_DIR", ""),
		CardCacheMaxItems: getEnvInt("CARDSTABLE_CARD_CACHE_MAX_ITEMS", 64),
		MaxBatchSize:      getEnvInt("CARDSTABLE_MAX_BATCH_SIZE", MaxBatchSizeValue),

		SettingsDB: getEnvString("CARDSTABLE_SETTINGS_DB", ""),

		DefaultQueryLimit: getEnvInt("CARDSTABLE_DEFAULT_QUERY_LIMIT", DefaultQueryLimitValue),
		InfoTopN:          getEnvInt("CARDSTABLE_INFO_TOP_N", DefaultInfoTopNValue),

		MaxQueryResults: getEnvInt("CARDSTABLE_MAX_QUERY_RESULTS", MaxQueryResultsValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}

	if path := os.Getenv("CARDSTABLE_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
	}

	return cfg, nil
}

// fileConfig mirrors the overridable Config fields with YAML tags. Pointer
// fields distinguish "absent" from zero values.
type fileConfig struct {
	Endpoint          *string  `yaml:"endpoint"`
	Mirrors           []string `yaml:"mirrors"`
	HTTPTimeoutMs     *int     `yaml:"http_timeout_ms"`
	CacheEnabled      *bool    `yaml:"cache_enabled"`
	CacheTTLMs        *int     `yaml:"cache_ttl_ms"`
	PageSize          *int     `yaml:"page_size"`
	DefaultSort       *string  `yaml:"default_sort"`
	NSFWVisible       *bool    `yaml:"nsfw_visible"`
	ShowTagCounts     *bool    `yaml:"show_tag_counts"`
	DownloadWorkers   *int     `yaml:"download_workers"`
	DownloadDir       *string  `yaml:"download_dir"`
	CardCacheMaxItems *int     `yaml:"card_cache_max_items"`
	MaxBatchSize      *int     `yaml:"max_batch_size"`
	SettingsDB        *string  `yaml:"settings_db"`
	DefaultQueryLimit *int     `yaml:"default_query_limit"`
	InfoTopN          *int     `yaml:"info_top_n"`
	MaxQueryResults   *int     `yaml:"max_query_results"`
	LogLevel          *string  `yaml:"log_level"`
	LogFile           *string  `yaml:"log_file"`
}

// applyFile overlays a strict-decoded YAML file onto the config. Unknown
// keys are errors so typos do not silently fall back to defaults.
func (c *Config) applyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var fc fileConfig
	if err := dec.Decode(&fc); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	setString(&c.Endpoint, fc.Endpoint)
	if len(fc.Mirrors) > 0 {
		c.Mirrors = fc.Mirrors
	}
	setDurationMs(&c.HTTPClientTimeout, fc.HTTPTimeoutMs)
	setBool(&c.CacheEnabled, fc.CacheEnabled)
	setDurationMs(&c.CacheTTL, fc.CacheTTLMs)
	setInt(&c.PageSize, fc.PageSize)
	setString(&c.DefaultSort, fc.DefaultSort)
	setBool(&c.NSFWVisible, fc.NSFWVisible)
	setBool(&c.ShowTagCounts, fc.ShowTagCounts)
	setInt(&c.DownloadWorkers, fc.DownloadWorkers)
	setString(&c.DownloadDir, fc.DownloadDir)
	setInt(&c.CardCacheMaxItems, fc.CardCacheMaxItems)
	setInt(&c.MaxBatchSize, fc.MaxBatchSize)
	setString(&c.SettingsDB, fc.SettingsDB)
	setInt(&c.DefaultQueryLimit, fc.DefaultQueryLimit)
	setInt(&c.InfoTopN, fc.InfoTopN)
	setInt(&c.MaxQueryResults, fc.MaxQueryResults)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFile, fc.LogFile)

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDurationMs(dst *time.Duration, src *int) {
	if src != nil {
		*dst = time.Duration(*src) * time.Millisecond
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
