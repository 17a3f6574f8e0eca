// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/padraicbc/swimtimes/fuzzy"
)

// Storage backends.
const (
	StoreCSV      = "csv"
	StorePostgres = "postgres"
	StoreSheets   = "sheets"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	Debug       bool
	LogEncoding string

	// Storage backend for the master table and roster.
	Store     string
	MasterCSV string
	RosterCSV string

	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// Google Sheets
	SheetsCredentials string
	SpreadsheetID     string
	SheetsMasterTab   string
	SheetsRosterTab   string

	// Matching and reconciliation
	FuzzyMode             fuzzy.Mode
	FuzzyThreshold        int
	RosterRemoval         string
	MissingNames          string
	MedleyMaxCombinations int

	// JWT signing secret (required by the API server).
	JWTSecret string

	// Server
	Port       string
	TLSDomains []string

	// MySQL – used only by cmd/migrate.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg, err := load(newViper())
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_ENCODING", "json")
	v.SetDefault("STORE", StoreCSV)
	v.SetDefault("MASTER_CSV", "master_times.csv")
	v.SetDefault("ROSTER_CSV", "swim_info.csv")
	v.SetDefault("DB_USER", "swim")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "swimtimes")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SHEETS_MASTER_TAB", "Master")
	v.SetDefault("SHEETS_ROSTER_TAB", "Roster")
	v.SetDefault("FUZZY_MODE", "window")
	v.SetDefault("FUZZY_THRESHOLD", 0)
	v.SetDefault("ROSTER_REMOVAL", "prompt")
	v.SetDefault("MISSING_NAMES", "prompt")
	v.SetDefault("MEDLEY_MAX_COMBINATIONS", 10_000_000)
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "")
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	mode, err := fuzzy.ParseMode(v.GetString("FUZZY_MODE"))
	if err != nil {
		return nil, fmt.Errorf("config: FUZZY_MODE: %w", err)
	}

	cfg := &Config{
		Debug:                 v.GetBool("DEBUG"),
		LogEncoding:           strings.ToLower(v.GetString("LOG_ENCODING")),
		Store:                 strings.ToLower(v.GetString("STORE")),
		MasterCSV:             v.GetString("MASTER_CSV"),
		RosterCSV:             v.GetString("ROSTER_CSV"),
		DatabaseURL:           v.GetString("DATABASE_URL"),
		DBUser:                v.GetString("DB_USER"),
		DBPass:                v.GetString("DB_PASS"),
		DBHost:                v.GetString("DB_HOST"),
		DBPort:                v.GetString("DB_PORT"),
		DBName:                v.GetString("DB_NAME"),
		DBSSLMode:             v.GetString("DB_SSLMODE"),
		SheetsCredentials:     v.GetString("GOOGLE_SERVICE_ACCOUNT_JSON"),
		SpreadsheetID:         v.GetString("GOOGLE_SHEETS_SPREADSHEET_ID"),
		SheetsMasterTab:       v.GetString("SHEETS_MASTER_TAB"),
		SheetsRosterTab:       v.GetString("SHEETS_ROSTER_TAB"),
		FuzzyMode:             mode,
		FuzzyThreshold:        v.GetInt("FUZZY_THRESHOLD"),
		RosterRemoval:         strings.ToLower(v.GetString("ROSTER_REMOVAL")),
		MissingNames:          strings.ToLower(v.GetString("MISSING_NAMES")),
		MedleyMaxCombinations: v.GetInt("MEDLEY_MAX_COMBINATIONS"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		Port:                  v.GetString("PORT"),
		TLSDomains:            splitTrimmed(v.GetString("TLS_DOMAINS")),
		MySQLDSN:              v.GetString("MYSQL_DSN"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// HasPostgres reports whether enough is set to reach PostgreSQL.
func (c *Config) HasPostgres() bool {
	return c.DatabaseURL != "" || c.DBPass != ""
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// ValidateServer checks the settings only the API server needs.
func (c *Config) ValidateServer() error {
	if !c.HasPostgres() {
		return errors.New("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	return nil
}

func (c *Config) validate() error {
	switch c.LogEncoding {
	case "json", "console":
	default:
		return fmt.Errorf("config: LOG_ENCODING must be json or console, got %q", c.LogEncoding)
	}

	switch c.Store {
	case StoreCSV:
		if c.MasterCSV == "" || c.RosterCSV == "" {
			return errors.New("config: MASTER_CSV and ROSTER_CSV must be set")
		}
	case StorePostgres:
		if !c.HasPostgres() {
			return errors.New("config: DATABASE_URL or DB_PASS must be set for the postgres store")
		}
	case StoreSheets:
		if c.SheetsCredentials == "" || c.SpreadsheetID == "" {
			return errors.New("config: GOOGLE_SERVICE_ACCOUNT_JSON and GOOGLE_SHEETS_SPREADSHEET_ID must be set for the sheets store")
		}
	default:
		return fmt.Errorf("config: unknown STORE %q", c.Store)
	}

	if c.FuzzyThreshold < 0 {
		return fmt.Errorf("config: FUZZY_THRESHOLD must be >= 0, got %d", c.FuzzyThreshold)
	}
	if !oneOf(c.RosterRemoval, "prompt", "keep", "remove", "reject") {
		return fmt.Errorf("config: ROSTER_REMOVAL must be prompt, keep, remove or reject, got %q", c.RosterRemoval)
	}
	if !oneOf(c.MissingNames, "prompt", "continue", "abort") {
		return fmt.Errorf("config: MISSING_NAMES must be prompt, continue or abort, got %q", c.MissingNames)
	}
	if c.MedleyMaxCombinations <= 0 {
		return fmt.Errorf("config: MEDLEY_MAX_COMBINATIONS must be positive, got %d", c.MedleyMaxCombinations)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
