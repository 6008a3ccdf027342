package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-lending-server/internal/config"
)

func TestGetPort(t *testing.T) {
	cfg := config.New()

	t.Setenv("PORT", "")
	require.Equal(t, ":8080", cfg.GetPort())

	t.Setenv("PORT", "9090")
	require.Equal(t, ":9090", cfg.GetPort())

	// An already-prefixed value is not prefixed again.
	t.Setenv("PORT", ":9090")
	require.Equal(t, ":9090", cfg.GetPort())
}

func TestGetSessionTTL(t *testing.T) {
	cfg := config.New()

	t.Setenv("SESSION_TTL", "")
	require.Equal(t, "1h0m0s", cfg.GetSessionTTL().String())

	t.Setenv("SESSION_TTL", "30m")
	require.Equal(t, "30m0s", cfg.GetSessionTTL().String())

	t.Setenv("SESSION_TTL", "not-a-duration")
	require.Equal(t, "1h0m0s", cfg.GetSessionTTL().String())
}
