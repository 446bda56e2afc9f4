package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("STORAGE_BACKEND", "file")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.Equal(t, "0 0 * * *", cfg.DailyCron)
	assert.Equal(t, "59 23 * * *", cfg.PenaltyCron)
	assert.Equal(t, "!", cfg.CommandPrefix)
}

func TestValidateRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("STORAGE_BACKEND", "postgres")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigBadRedisDB(t *testing.T) {
	t.Setenv("REDISDB", "zero")

	_, err := LoadConfig()
	assert.Error(t, err)
}
