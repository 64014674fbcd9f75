package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"EMULATOR_PROJECT_ID", "EMULATOR_API_KEYS", "EMULATOR_NUM_KEYS", "PORT", "EMULATOR_ID_TOKEN_TTL"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig()

	require.Equal(t, "demo-project", cfg.ProjectID)
	require.Empty(t, cfg.APIKeys)
	require.Equal(t, 2, cfg.NumKeys)
	require.Equal(t, 9099, cfg.Port)
	require.Equal(t, time.Hour, cfg.IDTokenTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("EMULATOR_PROJECT_ID", "demo-x")
	t.Setenv("EMULATOR_API_KEYS", " a, ,b ")
	t.Setenv("EMULATOR_NUM_KEYS", "nope")
	t.Setenv("EMULATOR_OOB_CODE_TTL", "15")
	t.Setenv("EMULATOR_ID_TOKEN_TTL", "90s")
	t.Setenv("EMULATOR_DISABLE_ANONYMOUS", "true")

	cfg := LoadConfig()
	require.Equal(t, "demo-x", cfg.ProjectID)
	require.Equal(t, []string{"a", "b"}, cfg.APIKeys)
	require.Equal(t, 2, cfg.NumKeys)
	require.Equal(t, 15*time.Minute, cfg.OobCodeTTL)
	require.Equal(t, 90*time.Second, cfg.IDTokenTTL)
	require.True(t, cfg.DisableAnonymous)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := Config{ProjectID: "", Port: 0, NumKeys: 11}
	err := cfg.Validate()
	require.ErrorContains(t, err, "EMULATOR_PROJECT_ID")
	require.ErrorContains(t, err, "PORT 0")
	require.ErrorContains(t, err, "EMULATOR_NUM_KEYS")
	require.ErrorContains(t, err, "EMULATOR_ID_TOKEN_TTL")
}
