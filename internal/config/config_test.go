package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("SGL_SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SGL_SESSION_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sgl_session", cfg.SessionCookieName)
	require.Equal(t, "/paitrabalhou", cfg.LoginPath)
	require.Equal(t, "/dashboard", cfg.DashboardPrefix)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.False(t, cfg.IsProduction())
	require.False(t, cfg.AdminBootstrapEnabled)
}

func TestLoadProductionDisablesBootstrap(t *testing.T) {
	t.Setenv("SGL_SESSION_SECRET", "test-secret")
	t.Setenv("SGL_APP_ENV", "production")
	t.Setenv("SGL_ADMIN_BOOTSTRAP", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.False(t, cfg.AdminBootstrapEnabled, "bootstrap must never run in production")
}

func TestLoadBootstrapEnabledInDevelopment(t *testing.T) {
	t.Setenv("SGL_SESSION_SECRET", "test-secret")
	t.Setenv("SGL_ADMIN_BOOTSTRAP", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.AdminBootstrapEnabled)
}
