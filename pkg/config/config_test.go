package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultProgram(t *testing.T) {
	cfg := Default()

	require.Equal(t, int64(200), cfg.Program.WithdrawalMinimum)
	require.Equal(t, int64(20), cfg.Program.ReferralBonus)
	require.Equal(t, 2, cfg.Program.ReferralUnlockThreshold)
	require.Equal(t, int64(30), cfg.Program.ReferralRate)
	require.Equal(t, 24, cfg.Program.TierTwoThreshold)
	require.Equal(t, int64(2200), cfg.Program.TierTwoBonus)
	require.Equal(t, 10*time.Second, cfg.Lock.TTL)
	require.Equal(t, "local", cfg.Lock.Backend)
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("PROGRAM_WITHDRAWAL_MINIMUM", "500")
	t.Setenv("LOCK_BACKEND", "redis")

	cfg := Default()
	require.Equal(t, int64(500), cfg.Program.WithdrawalMinimum)
	require.Equal(t, "redis", cfg.Lock.Backend)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Not/AZone"
	require.Equal(t, time.UTC, cfg.Location())
}

func TestInfraDefaults(t *testing.T) {
	cfg := Default()

	require.False(t, cfg.Otel.Enable)
	require.Equal(t, "http", cfg.Otel.Exporter)
	require.False(t, cfg.Minio.Enable)
	require.Equal(t, 15*time.Minute, cfg.Minio.PresignTTL)
	require.True(t, cfg.Rollover.Enable)
	require.Equal(t, "0 0 1 * *", cfg.Rollover.MonthlySpec)
}
