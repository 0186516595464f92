package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if len(cfg.Categories) != 10 {
		t.Errorf("default categories: got %d, want 10", len(cfg.Categories))
	}
	if cfg.Categories[0] != "Event Caterers Bangalore" {
		t.Errorf("first category: got %q", cfg.Categories[0])
	}
	if cfg.PageCap != 3 || cfg.PageSize != 20 {
		t.Errorf("paging defaults: got cap=%d size=%d, want 3/20", cfg.PageCap, cfg.PageSize)
	}
	if cfg.PhoneRegion != "IN" {
		t.Errorf("phone region: got %q, want IN", cfg.PhoneRegion)
	}
	if !strings.HasSuffix(cfg.OutputPath, ".xlsx") {
		t.Errorf("output path: got %q, want an .xlsx default", cfg.OutputPath)
	}
	if cfg.PostgresEnabled {
		t.Error("postgres should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VENDOR_CATEGORIES", "Event Caterers Bangalore, Tent House Bangalore ,")
	t.Setenv("PAGE_CAP", "1")
	t.Setenv("CENTER_LAT", "13.0827")

	cfg := Load()

	if len(cfg.Categories) != 2 {
		t.Fatalf("categories: got %d, want 2", len(cfg.Categories))
	}
	if cfg.Categories[1] != "Tent House Bangalore" {
		t.Errorf("second category not trimmed: %q", cfg.Categories[1])
	}
	if cfg.PageCap != 1 {
		t.Errorf("PageCap: got %d, want 1", cfg.PageCap)
	}
	if cfg.CenterLat != 13.0827 {
		t.Errorf("CenterLat: got %v, want 13.0827", cfg.CenterLat)
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := Load()
	cfg.SerpAPIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail without an API key")
	}

	cfg.SerpAPIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate with key: unexpected error %v", err)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "localhost", PostgresPort: "5432",
		PostgresUser: "collector", PostgresPassword: "pw",
		PostgresDB: "vendor_db", PostgresSSLMode: "disable",
	}

	want := "host=localhost port=5432 user=collector password=pw dbname=vendor_db sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
