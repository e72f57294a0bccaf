package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds storage, content-endpoint and download settings.
// Load from env and/or a .env file.
type Config struct {
	// Content snapshot
	ContentEndpoint string // e.g. https://content.example.com/catalog
	Language        string // snapshot language, e.g. cs
	DataDir         string // where catalog snapshots and the ledger live

	// Blob store
	Bucket string        // remote bucket holding the media objects
	URLTTL time.Duration // lifetime of resolved (signed) URLs

	// Local media
	DocumentsRoot string // device documents root: every downloaded asset lands here

	// Downloads
	DownloadTimeout time.Duration // per-asset HTTP timeout
}

// Load reads config from environment. Call LoadEnvFile(".env") before Load()
// to use a .env file.
func Load() *Config {
	c := &Config{
		ContentEndpoint: os.Getenv("CITY_GUIDE_CONTENT_ENDPOINT"),
		Language:        getEnv("CITY_GUIDE_LANG", "cs"),
		DataDir:         getEnv("CITY_GUIDE_DATA_DIR", "./data"),
		Bucket:          os.Getenv("CITY_GUIDE_BUCKET"),
		URLTTL:          getEnvDuration("CITY_GUIDE_URL_TTL", 15*time.Minute),
		DocumentsRoot:   getEnv("CITY_GUIDE_DOCUMENTS_ROOT", "./documents"),
		DownloadTimeout: getEnvDuration("CITY_GUIDE_DOWNLOAD_TIMEOUT", 2*time.Minute),
	}
	if c.URLTTL <= 0 {
		c.URLTTL = 15 * time.Minute
	}
	if c.DownloadTimeout <= 0 {
		c.DownloadTimeout = 2 * time.Minute
	}
	return c
}

// SnapshotPath returns the catalog snapshot file for the configured language.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "catalog_"+c.Language+".json")
}

// LedgerPath returns the ledger database file.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "ledger.db")
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
