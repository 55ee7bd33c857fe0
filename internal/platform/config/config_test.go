package config

import (
	"testing"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("JWT_SECRET", "test-secret")
	v.SetDefault("DEFAULT_FARE", "15.00")
	v.SetDefault("NOTIFY_TIMEOUT", "2s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, domain.Money(1500), cfg.DefaultFare)
	assert.Nil(t, cfg.NegativeLimit)
	assert.Equal(t, domain.Money(-1400), cfg.FareSettings().EffectiveFloor())
	assert.Equal(t, 2*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestFromViper_NegativeLimit(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"NEGATIVE_LIMIT": "-20.50"}))
	require.NoError(t, err)
	require.NotNil(t, cfg.NegativeLimit)
	assert.Equal(t, domain.Money(-2050), cfg.FareSettings().EffectiveFloor())

	_, err = fromViper(newViper(map[string]any{"NEGATIVE_LIMIT": "5"}))
	assert.Error(t, err)
}

func TestFromViper_Invalid(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{"DEFAULT_FARE": "15.001"}))
	assert.ErrorContains(t, err, "DEFAULT_FARE")

	_, err = fromViper(newViper(map[string]any{"DEFAULT_FARE": "0"}))
	assert.ErrorContains(t, err, "DEFAULT_FARE")

	_, err = fromViper(newViper(map[string]any{"STORE_DRIVER": "mongo"}))
	assert.ErrorContains(t, err, "STORE_DRIVER")

	_, err = fromViper(newViper(map[string]any{"STORE_DRIVER": StorePostgres}))
	assert.ErrorContains(t, err, "PGSQL_URL")

	_, err = fromViper(newViper(map[string]any{"JWT_SECRET": defaultJWTSecret, "IS_PRODUCTION": true}))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestFromViper_CORSOrigins(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
