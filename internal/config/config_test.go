package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_defaults(t *testing.T) {
	os.Clearenv()
	c := Load()
	if c.Language != "cs" {
		t.Errorf("Language = %q, want cs", c.Language)
	}
	if c.URLTTL != 15*time.Minute {
		t.Errorf("URLTTL = %v", c.URLTTL)
	}
	if c.DocumentsRoot != "./documents" {
		t.Errorf("DocumentsRoot = %q", c.DocumentsRoot)
	}
}

func TestLoad_envOverrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("CITY_GUIDE_LANG", "en")
	os.Setenv("CITY_GUIDE_DATA_DIR", "/var/lib/cityguide")
	os.Setenv("CITY_GUIDE_URL_TTL", "5m")
	c := Load()
	if c.Language != "en" {
		t.Errorf("Language = %q", c.Language)
	}
	if c.URLTTL != 5*time.Minute {
		t.Errorf("URLTTL = %v", c.URLTTL)
	}
	if got := c.SnapshotPath(); got != filepath.Join("/var/lib/cityguide", "catalog_en.json") {
		t.Errorf("SnapshotPath = %q", got)
	}
	if got := c.LedgerPath(); got != filepath.Join("/var/lib/cityguide", "ledger.db") {
		t.Errorf("LedgerPath = %q", got)
	}
}

func TestLoad_badDurationFallsBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("CITY_GUIDE_URL_TTL", "not-a-duration")
	c := Load()
	if c.URLTTL != 15*time.Minute {
		t.Errorf("URLTTL = %v, want default", c.URLTTL)
	}
}
