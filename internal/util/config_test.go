package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLookupDefaults(t *testing.T) {
	cfg := fromLookup(func(string) string { return "" })
	assert.Equal(t, DefaultSlot, cfg.Slot)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, DefaultModel, cfg.GeminiModel)
	assert.NotEmpty(t, cfg.SQLitePath)
	assert.False(t, cfg.PredictionMode)
	assert.False(t, cfg.UsePostgres())
}

func TestFromLookupReadsEnv(t *testing.T) {
	env := map[string]string{
		"CRAMWEEK_SEED":    "  exam-week  ",
		"DATABASE_URL":     "postgres://u:p@localhost/cram",
		"CRAMWEEK_SLOT":    "second",
		"CRAMWEEK_PREDICT": "true",
		"CRAMWEEK_THEME":   "Midnight",
		"CRAMWEEK_SQLITE":  "/tmp/x.db",
	}
	cfg := fromLookup(func(k string) string { return env[k] })
	assert.Equal(t, "exam-week", cfg.SeedText)
	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, "second", cfg.Slot)
	assert.True(t, cfg.PredictionMode)
	assert.Equal(t, "midnight", cfg.Theme)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CRAMWEEK_SLOT", "env-slot")
	t.Setenv("CRAMWEEK_PREDICT", "nope")
	cfg := FromEnv()
	assert.Equal(t, "env-slot", cfg.Slot)
	assert.False(t, cfg.PredictionMode)
}
