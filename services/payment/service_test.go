package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"growpreen/pkg/calendar"
	"growpreen/pkg/errutil"
	"growpreen/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(ServiceParams{
		DB:    testutil.NewTestDB(t, &Payment{}),
		IDs:   &testutil.SeqIDs{Prefix: "pay"},
		Clock: calendar.FixedClock(now),
	})
}

func TestCreateValidates(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateParams{Mobile: " ", Amount: 0})
	var be errutil.BaseError
	require.True(t, errors.As(err, &be))
	require.Equal(t, errutil.StatusBadRequest, be.Status())
	require.Len(t, be.Details, 3)

	p, err := svc.Create(context.Background(), CreateParams{Mobile: "9000000001", Amount: 499, UTR: "UTR1", RefCode: " abcd1234 "})
	require.NoError(t, err)
	require.Equal(t, StatusPending, p.Status)
	require.Equal(t, "ABCD1234", p.RefCode)
}

func TestApproveIsShortCircuitIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	p, err := svc.Create(ctx, CreateParams{Mobile: "9000000001", Amount: 499, UTR: "UTR1"})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	again, err := svc.Approve(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, again.Status)

	ok, err := svc.HasApproved(ctx, "9000000001")
	require.NoError(t, err)
	require.True(t, ok)

	rejected, err := svc.Reject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusRejected, rejected.Status)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Nil(t, stored.ApprovedAt)
	require.NotNil(t, stored.RejectedAt)

	ok, err = svc.HasApproved(ctx, "9000000001")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetStatusIsUnguardedOverride(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	p, err := svc.Create(ctx, CreateParams{Mobile: "9000000001", Amount: 499, UTR: "UTR1"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, p.ID, "Done")
	require.ErrorIs(t, err, errutil.ErrInvalidStatus)

	for _, st := range []string{"Approved", "Rejected", "Approved", "Pending"} {
		got, err := svc.SetStatus(ctx, p.ID, st)
		require.NoError(t, err)
		require.Equal(t, Status(st), got.Status)
	}

	_, err = svc.SetStatus(ctx, "missing", "Approved")
	require.ErrorIs(t, err, errutil.ErrNotFound)
}

func TestSetStatusKeepsDecisionTimestamps(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	p, err := svc.Create(ctx, CreateParams{Mobile: "9000000001", Amount: 499, UTR: "UTR1"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, p.ID, "Approved")
	require.NoError(t, err)
	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ApprovedAt)
	require.Nil(t, stored.RejectedAt)

	_, err = svc.SetStatus(ctx, p.ID, "Rejected")
	require.NoError(t, err)
	stored, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Nil(t, stored.ApprovedAt)
	require.NotNil(t, stored.RejectedAt)
	require.True(t, now.Equal(*stored.RejectedAt))

	_, err = svc.SetStatus(ctx, p.ID, "Pending")
	require.NoError(t, err)
	stored, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Nil(t, stored.ApprovedAt)
	require.Nil(t, stored.RejectedAt)
}

func TestListAndReferralLookup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.Create(ctx, CreateParams{Mobile: "9000000001", Amount: 100, UTR: "A"})
	require.NoError(t, err)
	withRef, err := svc.Create(ctx, CreateParams{Mobile: "9000000001", Amount: 100, UTR: "B", RefCode: "REF12345"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{Mobile: "9000000002", Amount: 100, UTR: "C"})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, first.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx, StatusAll)
	require.NoError(t, err)
	require.Len(t, all, 3)

	pending, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, pending, 3)

	pending, err = svc.List(ctx, string(StatusPending))
	require.NoError(t, err)
	require.Len(t, pending, 2)

	_, err = svc.List(ctx, "Whatever")
	require.ErrorIs(t, err, errutil.ErrInvalidStatus)

	ref, err := svc.FindReferralPayment(ctx, "9000000001")
	require.NoError(t, err)
	require.Equal(t, withRef.ID, ref.ID)

	none, err := svc.FindReferralPayment(ctx, "9000000002")
	require.NoError(t, err)
	require.Nil(t, none)
}
