package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_DURATION", "bogus")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://portal.example.com, http://localhost:3000,")
	t.Setenv("RATE_LIMIT", "10-S")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, []string{"https://portal.example.com", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "10-S", cfg.RateLimit)
}

func TestLoadParticipantConfig(t *testing.T) {
	t.Setenv("PBC_ENGAGEMENT_ID", "eng-1")
	t.Setenv("STATS_REFRESH_INTERVAL", "30s")

	cfg, err := config.LoadParticipantConfig()
	require.NoError(t, err)

	assert.Equal(t, "eng-1", cfg.EngagementID)
	assert.Equal(t, 30*time.Second, cfg.StatsRefreshInterval)
	assert.NotEmpty(t, cfg.APIBaseURL)
}
