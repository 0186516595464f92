package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultCategories are the vendor searches issued when VENDOR_CATEGORIES is
// not set. Order matters: dedup keeps the first occurrence across categories.
var defaultCategories = []string{
	"Event Caterers Bangalore",
	"Tent House Bangalore",
	"Sound System Vendors Bangalore",
	"Wedding Decorators Bangalore",
	"Event Photographers Bangalore",
	"Florists Bangalore",
	"Wedding Venues Bangalore",
	"DJ Services Bangalore",
	"Event Planners Bangalore",
	"Lighting Equipment Rental Bangalore",
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SerpAPIKey string

	Categories   []string
	CenterLat    float64
	CenterLng    float64
	RadiusMeters int

	PageCap          int
	PageSize         int
	RequestSpacingMs int
	PhoneRegion      string

	OutputPath string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SerpAPIKey: getEnv("SERPAPI_KEY", ""),

		Categories:   getEnvList("VENDOR_CATEGORIES", defaultCategories),
		CenterLat:    getEnvFloat("CENTER_LAT", 12.9716),
		CenterLng:    getEnvFloat("CENTER_LNG", 77.5946),
		RadiusMeters: getEnvInt("SEARCH_RADIUS_METERS", 50000),

		PageCap:          getEnvInt("PAGE_CAP", 3),
		PageSize:         getEnvInt("PAGE_SIZE", 20),
		RequestSpacingMs: getEnvInt("REQUEST_SPACING_MS", 1500),
		PhoneRegion:      getEnv("PHONE_REGION", "IN"),

		OutputPath: getEnv("OUTPUT_PATH", defaultOutputPath()),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "collector"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "collector123"),
		PostgresDB:       getEnv("POSTGRES_DB", "vendor_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// Validate checks settings that must be present before any network activity.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SerpAPIKey) == "" {
		return errors.New("config: SERPAPI_KEY is not set — get a free key at https://serpapi.com/manage-api-key")
	}
	if len(c.Categories) == 0 {
		return errors.New("config: VENDOR_CATEGORIES resolved to an empty list")
	}
	if c.PageCap < 1 {
		return fmt.Errorf("config: PAGE_CAP must be at least 1, got %d", c.PageCap)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("config: PAGE_SIZE must be at least 1, got %d", c.PageSize)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// defaultOutputPath names the report after the run date, so re-runs on
// different days never clobber an earlier artifact.
func defaultOutputPath() string {
	return "./output/Bangalore_Vendors_" + time.Now().Format("02-Jan-2006") + ".xlsx"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
