package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "from-env")

	cfg, err := Load(writeConfig(t, `
env = "production"

[reward]
provider_timeout = "20s"
lock_ttl = "1m"
`))
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, "from-env", cfg.Auth.TokenSecret)
	require.Equal(t, 20*time.Second, cfg.Reward.ProviderTimeout.Duration)
	require.Equal(t, time.Minute, cfg.Reward.LockTTL.Duration)

	// Untouched sections keep their defaults.
	require.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoad_Default(t *testing.T) {
	for _, key := range []string{"DB_PASSWORD", "TOKEN_SECRET", "REWARD_WEBHOOK_SECRET"} {
		t.Setenv(key, "")
	}

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_LockShorterThanProviderCall(t *testing.T) {
	_, err := Load(writeConfig(t, `
[reward]
provider_timeout = "30s"
lock_ttl = "30s"
`))
	require.ErrorContains(t, err, "lock_ttl")
}

func TestRewardConfigs_Validate(t *testing.T) {
	tests := []struct {
		name            string
		providerTimeout time.Duration
		lockTTL         time.Duration
		wantErr         bool
	}{
		{
			name:            "default",
			providerTimeout: 10 * time.Second,
			lockTTL:         30 * time.Second,
		},
		{
			name:            "exactly the margin",
			providerTimeout: 10 * time.Second,
			lockTTL:         10*time.Second + LockMargin,
		},
		{
			name:            "lock expires before the database writes",
			providerTimeout: 10 * time.Second,
			lockTTL:         11 * time.Second,
			wantErr:         true,
		},
		{
			name:            "lock shorter than the provider call",
			providerTimeout: time.Minute,
			lockTTL:         30 * time.Second,
			wantErr:         true,
		},
		{
			name:            "no provider timeout",
			providerTimeout: 0,
			lockTTL:         30 * time.Second,
			wantErr:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RewardConfigs{
				ProviderTimeout: Duration{tt.providerTimeout},
				LockTTL:         Duration{tt.lockTTL},
			}.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
