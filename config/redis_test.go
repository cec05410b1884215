package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRedis_NilConfig(t *testing.T) {
	rdb, err := ConnectRedis(nil)
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnectRedis_Disabled(t *testing.T) {
	withEnv(t, map[string]string{"REDIS_ENABLED": "false", "APPENV": "development"}, func(t *testing.T) {
		rdb, err := ConnectRedis(LoadConfig())
		assert.NoError(t, err)
		assert.Nil(t, rdb)
	})
}

func TestConnectRedis_DefaultIsDisabled(t *testing.T) {
	withEnv(t, map[string]string{"REDIS_ENABLED": "", "REDIS_ADDR": "", "REDIS_PASSWORD": "", "REDIS_DB": ""}, func(t *testing.T) {
		cfg := LoadConfig()
		assert.False(t, cfg.RedisEnabled)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)

		rdb, err := ConnectRedis(cfg)
		assert.NoError(t, err)
		assert.Nil(t, rdb)
	})
}

func TestConnectRedis_SkippedInTestEnv(t *testing.T) {
	withEnv(t, map[string]string{"REDIS_ENABLED": "true", "APPENV": "test"}, func(t *testing.T) {
		rdb, err := ConnectRedis(LoadConfig())
		assert.NoError(t, err)
		assert.Nil(t, rdb)
	})
}

func TestConnectRedis_InvalidAddress(t *testing.T) {
	withEnv(t, map[string]string{"REDIS_ENABLED": "true", "APPENV": "development", "REDIS_ADDR": "invalid-address:99999"}, func(t *testing.T) {
		rdb, err := ConnectRedis(LoadConfig())
		assert.Error(t, err)
		assert.Nil(t, rdb)
	})
}

func TestLoadConfig_RedisSettings(t *testing.T) {
	withEnv(t, map[string]string{"REDIS_ENABLED": "true", "REDIS_DB": "5", "REDIS_PASSWORD": "test-password"}, func(t *testing.T) {
		cfg := LoadConfig()
		assert.True(t, cfg.RedisEnabled)
		assert.Equal(t, 5, cfg.RedisDB)
		assert.Equal(t, "test-password", cfg.RedisPassword)
	})
}

func TestLoadConfig_InvalidRedisDBFallsBack(t *testing.T) {
	withEnv(t, map[string]string{"REDIS_DB": "invalid"}, func(t *testing.T) {
		assert.Equal(t, 0, LoadConfig().RedisDB)
	})
}
