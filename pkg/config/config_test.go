package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "V-", cfg.Documents.SalesPrefix)
	assert.Equal(t, "OC-", cfg.Documents.PurchasePrefix)
	assert.Equal(t, int64(5), cfg.Documents.LowStockThreshold)
	assert.Equal(t, 5000, cfg.DB.LockTimeoutMS)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("DB_LOCK_TIMEOUT_MS", "250")
	v.Set("DB_AUTO_MIGRATE", "true")
	v.Set("SALES_PREFIX", "PV-")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 250, cfg.DB.LockTimeoutMS)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "PV-", cfg.Documents.SalesPrefix)
}

func TestFromViper_PrefijosIguales(t *testing.T) {
	v := viper.New()
	v.Set("SALES_PREFIX", "X-")
	v.Set("PURCHASE_PREFIX", "X-")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/erp?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
