package rollover

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"growpreen/pkg/config"
	"growpreen/pkg/lock"
	"growpreen/services/ledger"
	"growpreen/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newLedger(t *testing.T, users ...*ledger.User) *ledger.Service {
	t.Helper()
	db := testutil.NewTestDB(t, &ledger.User{}, &ledger.LedgerEntry{})
	for _, u := range users {
		require.NoError(t, db.Create(u).Error)
	}
	return ledger.NewService(ledger.ServiceParams{
		DB:     db,
		Locker: lock.NewLocalLocker(),
		IDs:    &testutil.SeqIDs{Prefix: "le"},
	})
}

func TestRunResetsOnlyThePeriod(t *testing.T) {
	ctx := context.Background()
	led := newLedger(t,
		&ledger.User{ID: "u1", Mobile: "9000000001", MyRefCode: "C1", DailyEarning: 40, MonthlyEarning: 300, TotalEarning: 500},
		&ledger.User{ID: "u2", Mobile: "9000000002", MyRefCode: "C2", MonthlyEarning: 80, TotalEarning: 80},
	)
	job := NewJob(led, lock.NewLocalLocker())

	n, err := job.Run(ctx, ledger.PeriodDaily)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	u1, err := led.Get(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, u1.DailyEarning)
	require.Equal(t, int64(300), u1.MonthlyEarning)
	require.Equal(t, int64(500), u1.TotalEarning)

	n, err = job.Run(ctx, ledger.PeriodMonthly)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	u2, err := led.Get(ctx, "u2")
	require.NoError(t, err)
	require.Zero(t, u2.MonthlyEarning)
	require.Equal(t, int64(80), u2.TotalEarning)

	n, err = job.Run(ctx, ledger.PeriodMonthly)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSchedulerUsesProgramTimezone(t *testing.T) {
	cfg := config.Default()
	cfg.Timezone = "Asia/Kolkata"

	s, err := NewScheduler(Params{Config: cfg, Job: NewJob(newLedger(t), lock.NewLocalLocker())})
	require.NoError(t, err)
	require.Len(t, s.Entries(), 2)

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, loc)
	for _, e := range s.Entries() {
		next := e.Schedule.Next(now).In(loc)
		require.Zero(t, next.Hour())
		require.Zero(t, next.Minute())
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	cfg := config.Default()
	cfg.Rollover.DailySpec = "every day"

	_, err := NewScheduler(Params{Config: cfg, Job: NewJob(newLedger(t), lock.NewLocalLocker())})
	require.Error(t, err)
}
