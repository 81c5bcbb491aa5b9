package util

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds runtime settings and flags.
type Config struct {
	SeedText       string
	DSN            string // Postgres; empty means the local SQLite file
	SQLitePath     string
	Slot           string
	GeminiKey      string
	GeminiModel    string
	PredictionMode bool
	Theme          string // campus|midnight|paper
	RulesVersion   string
}

const (
	DefaultSlot  = "main"
	DefaultTheme = "campus"
	DefaultModel = "gemini-2.5-flash"
)

// FromEnv fills a Config from environment variables. Flags override it in main.
func FromEnv() Config {
	return fromLookup(os.Getenv)
}

func fromLookup(get func(string) string) Config {
	cfg := Config{
		SeedText:       strings.TrimSpace(get("CRAMWEEK_SEED")),
		DSN:            strings.TrimSpace(get("DATABASE_URL")),
		SQLitePath:     get("CRAMWEEK_SQLITE"),
		Slot:           get("CRAMWEEK_SLOT"),
		GeminiKey:      strings.TrimSpace(get("GEMINI_API_KEY")),
		GeminiModel:    get("CRAMWEEK_MODEL"),
		PredictionMode: envBool(get("CRAMWEEK_PREDICT")),
		Theme:          strings.ToLower(get("CRAMWEEK_THEME")),
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = defaultSQLitePath()
	}
	if cfg.Slot == "" {
		cfg.Slot = DefaultSlot
	}
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultModel
	}
	return cfg
}

func envBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cramweek.db"
	}
	return filepath.Join(dir, "cramweek", "saves.db")
}

// UsePostgres reports whether saves go to Postgres instead of SQLite.
func (c Config) UsePostgres() bool { return c.DSN != "" }
