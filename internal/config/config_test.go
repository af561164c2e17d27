package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
		t.Setenv("APP_ENV", "test")
		t.Setenv("FARMER_SHARE_RATE", "0.80")
		t.Setenv("HIGH_VALUE_THRESHOLD", "20000")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "sk_test_123", cfg.StripeSecretKey)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.True(t, cfg.FarmerShareRate.Equal(decimal.RequireFromString("0.80")))
		assert.True(t, cfg.HighValueThreshold.Equal(decimal.NewFromInt(20000)))
	})

	t.Run("Rate defaults applied when unset", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("FARMER_SHARE_RATE", "")
		t.Setenv("HIGH_VALUE_THRESHOLD", "")

		cfg := LoadConfig()

		assert.True(t, cfg.FarmerShareRate.Equal(decimal.RequireFromString("0.80")))
		assert.True(t, cfg.HighValueThreshold.Equal(decimal.NewFromInt(20000)))
	})

	t.Run("Unparsable rate falls back to default", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("FARMER_SHARE_RATE", "eighty percent")

		cfg := LoadConfig()

		assert.True(t, cfg.FarmerShareRate.Equal(decimal.RequireFromString("0.80")))
	})
}
