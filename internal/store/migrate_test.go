package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigratorNeedsDSN(t *testing.T) {
	_, err := NewMigrator("")
	assert.ErrorIs(t, err, ErrMissingDSN)
}

func TestMigratorHonoursCancelledContext(t *testing.T) {
	m, err := NewMigrator("postgres://cramweek@127.0.0.1:1/cramweek?sslmode=disable")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Up(ctx), context.Canceled)
	assert.ErrorIs(t, m.Down(ctx), context.Canceled)
	_, _, err = m.Version(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
