package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "POSTGRES_DSN", "REDIS_ADDR", "SMTP_USER", "SMTP_FROM", "SUPPORT_EMAIL", "BASE_URL", "SUBMIT_RATE_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, "michael@piot.co.za", cfg.Support.Email)
	assert.Equal(t, "Africa/Johannesburg", cfg.Support.TimeZone)
	assert.Equal(t, 10, cfg.Limits.SubmitPerMinute)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "3001")
	t.Setenv("BASE_URL", "https://support.example.com/")
	t.Setenv("SMTP_USER", "bot@piot.co.za")
	t.Setenv("SMTP_FROM", "")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SUBMIT_RATE_PER_MINUTE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3001", cfg.App.Addr())
	assert.Equal(t, "https://support.example.com", cfg.App.BaseURL)
	assert.Equal(t, "bot@piot.co.za", cfg.SMTP.From)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 10, cfg.Limits.SubmitPerMinute)
}

func TestLoad_InvalidSMTPPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProxySettings(t *testing.T) {
	t.Setenv("APP_PROXY_HEADER", "X-Forwarded-For")
	t.Setenv("APP_TRUSTED_PROXIES", " 10.0.0.1, ,10.0.0.2 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "X-Forwarded-For", cfg.App.ProxyHeader)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.App.TrustedProxies)

	t.Setenv("APP_PROXY_HEADER", "")
	t.Setenv("APP_TRUSTED_PROXIES", "")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.App.ProxyHeader)
	assert.Empty(t, cfg.App.TrustedProxies)
}
