package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"REDIS_URL":         "redis://localhost:6379/0",
		"PLATFORM_BASE_URL": "https://platform.example.com/",
		"APP_ENV":           "",
		"PORT":              "",
		"CART_TTL":          "",
		"CURRENCY_CODE":     "",
		"RATE_LIMIT_RPM":    "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "https://platform.example.com", cfg.PlatformBaseURL, "trailing slash trimmed")
	require.Equal(t, "INR", cfg.CurrencyCode)
	require.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, 120, cfg.RateLimitRPM)
	require.Equal(t, "storefront", cfg.MetricsNamespace)
	require.False(t, cfg.TracingEnabled)
}

func TestLoadRequiresPlatformBaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"REDIS_URL":         "redis://localhost:6379/0",
		"PLATFORM_BASE_URL": "",
	})
	require.Error(t, err)
}

func TestLoadRequiresRedisURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"REDIS_URL":         "",
		"PLATFORM_BASE_URL": "https://platform.example.com",
	})
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"REDIS_URL":         "redis://localhost:6379/0",
		"PLATFORM_BASE_URL": "https://platform.example.com",
		"PORT":              "9090",
		"CART_TTL":          "48h",
		"CORS_ALLOWED_ORIGINS": "https://shop.example.com, https://admin.example.com",
		"TRACING_ENABLED":   "true",
		"RATE_LIMIT_RPM":    "60",
	})
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 48*time.Hour, cfg.CartTTL)
	require.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.TracingEnabled)
	require.Equal(t, 60, cfg.RateLimitRPM)
}
