package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"growpreen/pkg/errutil"
	"growpreen/pkg/lock"
	"growpreen/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T, users ...*User) *Service {
	t.Helper()
	db := testutil.NewTestDB(t, &User{}, &LedgerEntry{})
	svc := NewService(ServiceParams{
		DB:     db,
		Locker: lock.NewLocalLocker(),
		IDs:    &testutil.SeqIDs{Prefix: "le"},
	})
	for _, u := range users {
		require.NoError(t, svc.users.Create(context.Background(), u))
	}
	return svc
}

func TestCreditAffectsSelectedBuckets(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &User{ID: "u1", Mobile: "9000000001", MyRefCode: "AAAA1111"})

	u, err := svc.Credit(ctx, "u1", 50, AllPeriods, Memo{ReferenceID: "task-1"})
	require.NoError(t, err)
	require.Equal(t, int64(50), u.DailyEarning)
	require.Equal(t, int64(50), u.MonthlyEarning)
	require.Equal(t, int64(50), u.TotalEarning)

	u, err = svc.Credit(ctx, "u1", 20, Affects{}, Memo{ReferenceID: "ref-1"})
	require.NoError(t, err)
	require.Equal(t, int64(50), u.DailyEarning)
	require.Equal(t, int64(70), u.TotalEarning)

	stored, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(70), stored.TotalEarning)
	require.Equal(t, int64(2), stored.Version)
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t, &User{ID: "u1", Mobile: "9000000001", MyRefCode: "AAAA1111"})

	_, err := svc.Credit(context.Background(), "u1", 0, AllPeriods, Memo{})
	var be errutil.BaseError
	require.True(t, errors.As(err, &be))
	require.Equal(t, errutil.StatusBadRequest, be.Status())

	_, err = svc.Debit(context.Background(), "u1", -5, Memo{})
	require.Error(t, err)
}

func TestDebitInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &User{ID: "u1", Mobile: "9000000001", MyRefCode: "AAAA1111", TotalEarning: 150})

	_, err := svc.Debit(ctx, "u1", 300, Memo{})
	require.ErrorIs(t, err, errutil.ErrInsufficientBalance)

	bal, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(150), bal.TotalEarning)

	entries, err := svc.Entries(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDebitThenCreditRestoresBalance(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &User{ID: "u1", Mobile: "9000000001", MyRefCode: "AAAA1111", TotalEarning: 300, DailyEarning: 40})

	u, err := svc.Debit(ctx, "u1", 300, Memo{ReferenceID: "wd-1"})
	require.NoError(t, err)
	require.Zero(t, u.TotalEarning)
	require.Equal(t, int64(40), u.DailyEarning)

	_, err = svc.Debit(ctx, "u1", 1, Memo{})
	require.ErrorIs(t, err, errutil.ErrInsufficientBalance)

	u, err = svc.Credit(ctx, "u1", 300, Affects{}, Memo{ReferenceID: "wd-1"})
	require.NoError(t, err)
	require.Equal(t, int64(300), u.TotalEarning)
	require.Equal(t, int64(40), u.DailyEarning)
}

func TestConcurrentCreditsAreNotLost(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &User{ID: "u1", Mobile: "9000000001", MyRefCode: "AAAA1111"})

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Credit(ctx, "u1", 10, AllPeriods, Memo{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	bal, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(250), bal.TotalEarning)
	require.Equal(t, int64(250), bal.DailyEarning)

	report, err := svc.VerifyChain(ctx, "u1")
	require.NoError(t, err)
	require.True(t, report.Valid)
	require.Equal(t, 25, report.Entries)
}

func TestAdjustKeepsReelUnlockMonotonic(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &User{ID: "u1", Mobile: "9000000001", MyRefCode: "AAAA1111", ReelTaskUnlocked: true, TotalEarning: 90})

	u, err := svc.Adjust(ctx, "u1", func(u *User) {
		u.ReelTaskUnlocked = false
		u.ReferralsCompleted++
		u.TotalEarning = 1_000_000
		u.Name = "ignored"
	})
	require.NoError(t, err)
	require.True(t, u.ReelTaskUnlocked)
	require.Equal(t, 1, u.ReferralsCompleted)

	stored, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(90), stored.TotalEarning)
	require.Empty(t, stored.Name)
	require.True(t, stored.ReelTaskUnlocked)
}

func TestResetPeriod(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &User{ID: "u1", Mobile: "9000000001", MyRefCode: "AAAA1111", DailyEarning: 30, MonthlyEarning: 80, TotalEarning: 120})

	ids, err := svc.UsersWithEarnings(ctx, PeriodDaily)
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, ids)

	u, err := svc.ResetPeriod(ctx, "u1", PeriodDaily)
	require.NoError(t, err)
	require.Zero(t, u.DailyEarning)
	require.Equal(t, int64(80), u.MonthlyEarning)
	require.Equal(t, int64(120), u.TotalEarning)

	ids, err = svc.UsersWithEarnings(ctx, PeriodDaily)
	require.NoError(t, err)
	require.Empty(t, ids)

	entries, err := svc.Entries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, EntryResetDaily, entries[0].Type)
	require.Equal(t, int64(30), entries[0].Amount)
}

func TestVerifyChainDetectsTampering(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &User{ID: "u1", Mobile: "9000000001", MyRefCode: "AAAA1111"})

	for i := 0; i < 3; i++ {
		_, err := svc.Credit(ctx, "u1", 10, AllPeriods, Memo{})
		require.NoError(t, err)
	}

	entries, err := svc.Entries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, genesisHash, entries[0].PreviousHash)
	require.Equal(t, entries[0].Hash, entries[1].PreviousHash)

	require.NoError(t, svc.entries.Update(ctx, entries[1].ID, map[string]any{"amount": 1000}))

	report, err := svc.VerifyChain(ctx, "u1")
	require.NoError(t, err)
	require.False(t, report.Valid)
	require.Equal(t, int64(2), report.BrokenAt)
}

func TestApplyUnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Credit(context.Background(), "ghost", 10, AllPeriods, Memo{})
	require.ErrorIs(t, err, errutil.ErrNotFound)
}

func TestApplyGivesUpAfterRepeatedVersionConflicts(t *testing.T) {
	attempts := 0
	svc := &Service{
		users: &testutil.RepoMock[User]{
			FindByIDFn: func(ctx context.Context, id string) (*User, error) {
				return &User{ID: id, TotalEarning: 10}, nil
			},
			UpdateWhereFn: func(ctx context.Context, id string, cond, fields map[string]any) (int64, error) {
				attempts++
				return 0, nil
			},
		},
		entries: &testutil.RepoMock[LedgerEntry]{},
		locker:  lock.NewLocalLocker(),
		ids:     &testutil.SeqIDs{},
	}

	_, err := svc.Credit(context.Background(), "u1", 5, AllPeriods, Memo{})
	require.ErrorIs(t, err, errutil.ErrConcurrentUpdate)
	require.Equal(t, maxAttempts, attempts)
}
